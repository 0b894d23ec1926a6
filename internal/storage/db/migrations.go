package db

import "fmt"

const currentVersion = 3

func (d *DB) migrate() error {
	if _, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	migrations := []func(*DB) error{
		migrateV1,
		migrateV2,
		migrateV3,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](d); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := d.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration
func (d *DB) SchemaVersion() (int, error) {
	var version int
	if err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

func migrateV1(d *DB) error {
	statements := []string{
		`CREATE TABLE deployed_files (
			game_id TEXT NOT NULL,
			relative_path TEXT NOT NULL,
			mod_key TEXT NOT NULL,
			mod_name TEXT NOT NULL,
			deployed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(game_id, relative_path)
		)`,
		`CREATE INDEX idx_deployed_files_mod ON deployed_files(game_id, mod_key)`,
	}

	for _, stmt := range statements {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func migrateV2(d *DB) error {
	// Original game files moved aside before a mod file replaced them
	_, err := d.Exec(`
		CREATE TABLE backups (
			game_id TEXT NOT NULL,
			relative_path TEXT NOT NULL,
			backup_path TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(game_id, relative_path)
		)
	`)
	return err
}

func migrateV3(d *DB) error {
	_, err := d.Exec(`
		CREATE TABLE scans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			mod_count INTEGER NOT NULL,
			skipped_count INTEGER NOT NULL,
			scanned_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}
