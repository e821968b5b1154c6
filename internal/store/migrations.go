package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means a fresh database.
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the scenario history tables.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scenarios (
			id            TEXT PRIMARY KEY,
			seq           INTEGER NOT NULL UNIQUE,
			saved_at      TEXT NOT NULL,
			name          TEXT NOT NULL,
			officer_count INTEGER NOT NULL,
			avg_salary    REAL NOT NULL,
			use_cases     TEXT NOT NULL,
			version       TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS scenario_metrics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario_id  TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
			metric_name  TEXT NOT NULL,
			metric_value REAL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name)`,
		`CREATE INDEX IF NOT EXISTS idx_scenario_metrics_scenario ON scenario_metrics(scenario_id)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
