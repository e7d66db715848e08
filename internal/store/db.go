package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// pragmas are applied by the driver to every pooled connection.
var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// DB wraps a sql.DB connection to the platovue history database.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the history database at dbPath, creating its parent
// directory, and migrates it to the current schema.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	return open(dsn("file:"+dbPath, "journal_mode(WAL)"), 0)
}

// OpenInMemory opens a migrated in-memory database.
func OpenInMemory() (*DB, error) {
	// Each pooled connection would get its own empty database.
	return open(dsn("file::memory:"), 1)
}

func dsn(base string, extra ...string) string {
	q := url.Values{}
	for _, p := range append(append([]string(nil), pragmas...), extra...) {
		q.Add("_pragma", p)
	}
	return base + "?" + q.Encode()
}

func open(dsn string, maxConns int) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}

	db := &DB{conn: conn}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
