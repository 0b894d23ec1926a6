package db

import (
	"fmt"
	"time"
)

// Scan summarizes one discovery run
type Scan struct {
	ID           int64
	GameID       string
	ModCount     int
	SkippedCount int
	ScannedAt    time.Time
}

// RecordScan stores the outcome of a discovery run
func (d *DB) RecordScan(gameID string, modCount, skippedCount int) error {
	_, err := d.Exec(`
		INSERT INTO scans (game_id, mod_count, skipped_count) VALUES (?, ?, ?)
	`, gameID, modCount, skippedCount)
	if err != nil {
		return fmt.Errorf("recording scan: %w", err)
	}
	return nil
}

// LastScan returns the most recent scan for a game, or nil if it was never scanned
func (d *DB) LastScan(gameID string) (*Scan, error) {
	scans, err := d.RecentScans(gameID, 1)
	if err != nil || len(scans) == 0 {
		return nil, err
	}
	return &scans[0], nil
}

// RecentScans returns up to limit scans for a game, newest first
func (d *DB) RecentScans(gameID string, limit int) ([]Scan, error) {
	rows, err := d.Query(`
		SELECT id, game_id, mod_count, skipped_count, scanned_at FROM scans
		WHERE game_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var s Scan
		if err := rows.Scan(&s.ID, &s.GameID, &s.ModCount, &s.SkippedCount, &s.ScannedAt); err != nil {
			return nil, fmt.Errorf("scanning scan row: %w", err)
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}
