// Package store provides SQLite-backed persistence for the archiver:
// dialogs, messages, sync bookmarks, and app metadata, plus the FTS5
// trigram index that backs search.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
)

// Store is the single-writer, many-reader handle to the archive database.
// Writes and multi-statement transactions are serialized by mu; readers
// acquire the same lock in read mode.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewInMemory creates a throwaway, schema-migrated store for tests.
func NewInMemory() (*Store, error) {
	return NewWithDSN(":memory:")
}

// New opens (creating if absent) the database file at path, configures
// durability pragmas, and runs migrations.
func New(path string) (*Store, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-65536)",
		path,
	)
	return NewWithDSN(dsn)
}

// NewWithDSN opens a store with a caller-supplied DSN. Exposed separately
// so tests can pass ":memory:"-style DSNs without going through New's
// pragma string building.
func NewWithDSN(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, wrapErr("NewWithDSN", KindIO, err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
