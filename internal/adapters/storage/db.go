package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// sqlitePragmas are applied to every pooled connection.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// OpenSQLite opens the preference database at path. ":memory:" is accepted
// for tests and ephemeral runs.
// PRE: path is non-empty
// POST: returns an open connection with the schema applied; every connection
// waits up to 5s on a locked database
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?"+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty in-memory database
		db.SetMaxOpenConns(1)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: the preference table exists, WAL mode enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS preference (
		profile_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (profile_id, key)
	);

	CREATE INDEX IF NOT EXISTS idx_preference_updated ON preference(updated_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
