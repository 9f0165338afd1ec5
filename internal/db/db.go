// Package db opens the SQLite database backing the project store.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Memory is the DSN for a private in-memory database that lives as long as
// the returned handle.
const Memory = ":memory:"

// Open opens the SQLite database at dsn and applies the schema. File-backed
// databases get their parent directory created first.
func Open(dsn string) (*sql.DB, error) {
	if dsn != Memory {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := ApplyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMemory is Open(Memory).
func OpenMemory() (*sql.DB, error) {
	return Open(Memory)
}
