package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DeployedFile is a file pitlane placed into a game directory
type DeployedFile struct {
	RelativePath string
	ModKey       string // domain.ModLocation.Key of the winning mod
	ModName      string
	DeployedAt   time.Time
}

// SaveDeployedFile records that a file is deployed by a specific mod.
// A later deploy of the same path takes ownership.
func (d *DB) SaveDeployedFile(gameID, relativePath, modKey, modName string) error {
	_, err := d.Exec(`
		INSERT INTO deployed_files (game_id, relative_path, mod_key, mod_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, relative_path) DO UPDATE SET
			mod_key = excluded.mod_key,
			mod_name = excluded.mod_name,
			deployed_at = CURRENT_TIMESTAMP
	`, gameID, relativePath, modKey, modName)
	if err != nil {
		return fmt.Errorf("saving deployed file: %w", err)
	}
	return nil
}

// GetFileOwner returns the deployed file record for a path, or nil if pitlane did not deploy it
func (d *DB) GetFileOwner(gameID, relativePath string) (*DeployedFile, error) {
	var f DeployedFile
	err := d.QueryRow(`
		SELECT relative_path, mod_key, mod_name, deployed_at FROM deployed_files
		WHERE game_id = ? AND relative_path = ?
	`, gameID, relativePath).Scan(&f.RelativePath, &f.ModKey, &f.ModName, &f.DeployedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting file owner: %w", err)
	}
	return &f, nil
}

// GetDeployedFiles returns every deployed file for a game, ordered by path
func (d *DB) GetDeployedFiles(gameID string) ([]DeployedFile, error) {
	rows, err := d.Query(`
		SELECT relative_path, mod_key, mod_name, deployed_at FROM deployed_files
		WHERE game_id = ?
		ORDER BY relative_path
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying deployed files: %w", err)
	}
	defer rows.Close()

	var files []DeployedFile
	for rows.Next() {
		var f DeployedFile
		if err := rows.Scan(&f.RelativePath, &f.ModKey, &f.ModName, &f.DeployedAt); err != nil {
			return nil, fmt.Errorf("scanning deployed file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteDeployedFile removes the record for one path
func (d *DB) DeleteDeployedFile(gameID, relativePath string) error {
	_, err := d.Exec(`DELETE FROM deployed_files WHERE game_id = ? AND relative_path = ?`, gameID, relativePath)
	if err != nil {
		return fmt.Errorf("deleting deployed file: %w", err)
	}
	return nil
}

// ClearDeployedFiles removes every deployed file record for a game
func (d *DB) ClearDeployedFiles(gameID string) error {
	_, err := d.Exec(`DELETE FROM deployed_files WHERE game_id = ?`, gameID)
	if err != nil {
		return fmt.Errorf("clearing deployed files: %w", err)
	}
	return nil
}
