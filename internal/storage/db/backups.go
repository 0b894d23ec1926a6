package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Backup is an original game file saved before a mod file replaced it
type Backup struct {
	RelativePath string
	BackupPath   string
	CreatedAt    time.Time
}

// SaveBackup records a backup. An existing backup for the path is kept: the first copy
// is the original game file.
func (d *DB) SaveBackup(gameID, relativePath, backupPath string) error {
	_, err := d.Exec(`
		INSERT INTO backups (game_id, relative_path, backup_path)
		VALUES (?, ?, ?)
		ON CONFLICT(game_id, relative_path) DO NOTHING
	`, gameID, relativePath, backupPath)
	if err != nil {
		return fmt.Errorf("saving backup: %w", err)
	}
	return nil
}

// GetBackup returns the backup for a path, or nil if there is none
func (d *DB) GetBackup(gameID, relativePath string) (*Backup, error) {
	var b Backup
	err := d.QueryRow(`
		SELECT relative_path, backup_path, created_at FROM backups
		WHERE game_id = ? AND relative_path = ?
	`, gameID, relativePath).Scan(&b.RelativePath, &b.BackupPath, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting backup: %w", err)
	}
	return &b, nil
}

// GetBackups returns every backup for a game, ordered by path
func (d *DB) GetBackups(gameID string) ([]Backup, error) {
	rows, err := d.Query(`
		SELECT relative_path, backup_path, created_at FROM backups
		WHERE game_id = ?
		ORDER BY relative_path
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying backups: %w", err)
	}
	defer rows.Close()

	var backups []Backup
	for rows.Next() {
		var b Backup
		if err := rows.Scan(&b.RelativePath, &b.BackupPath, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning backup: %w", err)
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// ClearBackups removes every backup record for a game
func (d *DB) ClearBackups(gameID string) error {
	if _, err := d.Exec(`DELETE FROM backups WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("clearing backups: %w", err)
	}
	return nil
}
