package store

import "fmt"

// migrations are applied in order; the database's user_version records how
// many have run.
var migrations = [][]string{
	{
		`CREATE TABLE runs (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at          TEXT NOT NULL,
			target              TEXT NOT NULL,
			output              TEXT NOT NULL,
			version             TEXT NOT NULL,
			discovered_files    INTEGER NOT NULL,
			staged_files        INTEGER NOT NULL,
			analyzed_files      INTEGER NOT NULL,
			avg_maintainability REAL NOT NULL,
			avg_complexity      REAL NOT NULL
		)`,
		`CREATE TABLE file_results (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			file            TEXT NOT NULL,
			category        TEXT NOT NULL,
			maintainability REAL NOT NULL,
			complexity      REAL NOT NULL,
			sloc            INTEGER NOT NULL,
			tier            TEXT NOT NULL
		)`,
		`CREATE INDEX idx_runs_target ON runs(target)`,
		`CREATE INDEX idx_file_results_run ON file_results(run_id)`,
		`CREATE INDEX idx_file_results_file ON file_results(file)`,
	},
}

// SchemaVersion reports how many migrations have been applied.
func (db *DB) SchemaVersion() (int, error) {
	var v int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Migrate brings the schema up to date. Each step runs in its own transaction.
func (db *DB) Migrate() error {
	current, err := db.SchemaVersion()
	if err != nil {
		return err
	}
	for v := current; v < len(migrations); v++ {
		if err := db.migrateTo(v+1, migrations[v]); err != nil {
			return fmt.Errorf("migration v%d: %w", v+1, err)
		}
	}
	return nil
}

func (db *DB) migrateTo(version int, stmts []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return err
	}
	return tx.Commit()
}
