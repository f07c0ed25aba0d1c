// Package database implements planner.Store on SQLite.
package database

import (
	"database/sql"
	"fmt"

	"planner-go/internal/database/migrations"
	"planner-go/internal/planner"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the planner.Store interface using SQLite.
// Tags created on the fly during task writes get ids from the same
// generator the service layer uses.
type SQLiteStore struct {
	db   *sql.DB
	path string
	ids  planner.IDGenerator
}

// NewSQLiteStore opens a SQLite database at path and wraps it.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, path: path, ids: planner.NewPrefixIDGenerator()}, nil
}

// NewSQLiteStoreFromDB wraps an existing connection. The caller is
// responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, ids: planner.NewPrefixIDGenerator()}
}

// OpenConnection opens and configures a SQLite connection.
//
// The DSN enables foreign keys, bounds lock waits at 15 seconds (the
// storage-layer statement timeout), and makes every write transaction
// BEGIN IMMEDIATE so concurrent writers serialize at the storage layer
// instead of failing mid-transaction on lock upgrade.
func OpenConnection(path string) (*sql.DB, error) {
	dsn := path + "?_foreign_keys=on&_busy_timeout=15000&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each pooled connection to ":memory:" would get its own empty
	// database, so the pool is pinned to a single connection there.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// WAL keeps readers unblocked during writes. Not every platform
	// supports it; falling back to the default journal is fine.
	_, _ = db.Exec("PRAGMA journal_mode = WAL")

	return db, nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteStore) Path() string {
	return s.path
}

// Migrate brings the schema up to the latest embedded version.
func (s *SQLiteStore) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the schema is at the latest version.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteStore implements planner.Store.
var _ planner.Store = (*SQLiteStore)(nil)
