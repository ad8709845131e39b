// Package store provides the reference collaborator: an in-process,
// SQLite-backed document store implementing the client.Collection surface.
//
// It exists so suites can run end to end without an external database: the
// CLI and the harness integration tests drive it exactly the way they would
// drive a real data-access client. Documents are stored one per row as
// ordered JSON; filter matching and update application happen in Go, so the
// store's semantics live here rather than in SQL.
//
// Sessions map to SQL transactions: a session-scoped call runs inside the
// session's transaction and its effects stay invisible to session-less
// calls until the session commits.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/verdict-sh/verdict/internal/client"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed document store.
// Open with ":memory:" for a fresh, throwaway store per test document.
type Store struct {
	db *sql.DB

	// scratch is the path of a throwaway database removed on Close,
	// "" for caller-owned paths.
	scratch string
}

// Open creates or opens a SQLite database at the given path and applies
// the schema. Idempotent.
//
// ":memory:" opens a private throwaway database backed by a uniquely named
// temporary file. A file (rather than SQLite's own in-memory mode) is what
// lets WAL give session transactions and session-less calls consistent
// snapshots over separate connections; the file is removed on Close.
func Open(path string) (*Store, error) {
	scratch := ""
	if path == ":memory:" {
		scratch = filepath.Join(os.TempDir(), fmt.Sprintf("verdict-%s.db", uuid.NewString()))
		path = scratch
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a small pool is enough for a
	// session transaction plus session-less calls.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, scratch: scratch}, nil
}

// Close closes the database connection and removes a throwaway database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	if s.scratch != "" {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			os.Remove(s.scratch + suffix)
		}
	}
	return err
}

// Collection returns the operation surface for one named collection.
func (s *Store) Collection(db, name string) *Collection {
	return &Collection{store: s, db: db, name: name}
}

// querier is the subset of database operations shared by *sql.DB and
// *sql.Tx, so collection operations run identically inside and outside a
// session.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// querier resolves the execution surface for an optional session.
// A nil session uses the store's own connection; a session uses its
// transaction. Sessions from a different collaborator are rejected.
func (s *Store) querier(sess client.Session) (querier, error) {
	if sess == nil {
		return s.db, nil
	}
	own, ok := sess.(*Session)
	if !ok {
		return nil, fmt.Errorf("session %q was not created by this store (%T)", sess.ID(), sess)
	}
	return own.tx, nil
}
