package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// CommitError marks a failure during commit, where the write may or may not
// have landed. Callers surface it differently from a clean rollback.
type CommitError struct {
	Err error
}

func (e CommitError) Error() string { return "commit tx: " + e.Err.Error() }
func (e CommitError) Unwrap() error { return e.Err }

// WithTx runs fn inside a SQL transaction. An error from fn rolls back and is
// returned as-is; a commit failure comes back as a CommitError.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return CommitError{Err: err}
	}
	committed = true
	return nil
}
