package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stamped into PRAGMA user_version of every recorder
// database.
const schemaVersion = 1

// ErrSchemaVersion is returned by Open for a database stamped with a
// schema this build does not know.
var ErrSchemaVersion = errors.New("unsupported recorder schema version")

// connParams are go-sqlite3 DSN options, applied to every connection the
// pool opens: WAL so trace and replay can read while a run records, a
// busy timeout for the second process, and enforced run/netlist
// references.
const connParams = "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"

// Store records simulation runs: netlists by content hash, run headers,
// and the full banks of every recorded cycle.
type Store struct {
	db *sql.DB
}

// Open creates or opens the recorder database at path.
//
// A new file gets the schema and is stamped with schemaVersion; opening an
// existing recorder database is a no-op beyond the version check.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?"+connParams)
	if err != nil {
		return nil, fmt.Errorf("open recorder %s: %w", path, err)
	}
	// One writer: cycles of a run are appended in order.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open recorder %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initSchema creates the tables of an unstamped database and stamps it.
func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch version {
	case schemaVersion:
		return nil
	case 0:
	default:
		return fmt.Errorf("%w: database has %d, recorder supports %d", ErrSchemaVersion, version, schemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return nil
}
