package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Session is a transactional session handle.
//
// Each session owns one SQL transaction. Operations scoped to the session
// run inside it; their effects become visible to session-less operations
// only on Commit. The session's owner (the surrounding runner context)
// must end it with exactly one of Commit or Abort.
type Session struct {
	id string
	tx txLike
}

// txLike is satisfied by *sql.Tx; kept narrow so tests can observe
// commit/rollback ordering if they need to.
type txLike interface {
	querier
	Commit() error
	Rollback() error
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// StartSession begins a new transactional session.
func (s *Store) StartSession(ctx context.Context) (*Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin session transaction: %w", err)
	}
	return &Session{id: uuid.NewString(), tx: tx}, nil
}

// Commit makes the session's writes visible and ends the session.
func (s *Session) Commit() error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit session %s: %w", s.id, err)
	}
	return nil
}

// Abort discards the session's writes and ends the session.
func (s *Session) Abort() error {
	if err := s.tx.Rollback(); err != nil {
		return fmt.Errorf("abort session %s: %w", s.id, err)
	}
	return nil
}
