package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type CompletionRepo struct {
	db *sql.DB
}

func NewCompletionRepo(db *sql.DB) *CompletionRepo {
	return &CompletionRepo{db: db}
}

// ErrDuplicateCompletion reports a violated (user, assignment, ritual)
// uniqueness constraint.
var ErrDuplicateCompletion = fmt.Errorf("completion already recorded")

func (r *CompletionRepo) InsertTx(ctx context.Context, tx *sql.Tx, c *Completion) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO completions (
			public_id, user_id, assignment_id, ritual_id, day,
			journal, mood, dwell_seconds, word_count, bytes_awarded, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.PublicID, c.UserID, c.AssignmentID, c.RitualID, c.Day,
		c.Journal, c.Mood, c.DwellSeconds, c.WordCount, c.BytesAwarded, c.CompletedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return 0, ErrDuplicateCompletion
		}
		return 0, fmt.Errorf("completion insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("completion last insert id: %w", err)
	}
	return id, nil
}

func (r *CompletionRepo) Exists(ctx context.Context, userID string, assignmentID int64, ritualID string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM completions
		WHERE user_id = ? AND assignment_id = ? AND ritual_id = ?
		LIMIT 1
	`, userID, assignmentID, ritualID)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("completion exists: %w", err)
	}
	return true, nil
}

// CountSince counts the user's completions with completed_at >= since.
// Backs the trailing-window rate limit.
func (r *CompletionRepo) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM completions
		WHERE user_id = ? AND completed_at >= ?
	`, userID, since)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count since: %w", err)
	}
	return n, nil
}

func (r *CompletionRepo) CountForDay(ctx context.Context, userID, day string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM completions WHERE user_id = ? AND day = ?
	`, userID, day)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count day: %w", err)
	}
	return n, nil
}

// LastJournal returns the user's most recent journal text, or "" when the
// user has never completed anything.
func (r *CompletionRepo) LastJournal(ctx context.Context, userID string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT journal FROM completions
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT 1
	`, userID)
	var journal string
	if err := row.Scan(&journal); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("completion last journal: %w", err)
	}
	return journal, nil
}

func (r *CompletionRepo) ListForDay(ctx context.Context, userID, day string) ([]Completion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, public_id, user_id, assignment_id, ritual_id, day,
			journal, mood, dwell_seconds, word_count, bytes_awarded, completed_at
		FROM completions
		WHERE user_id = ? AND day = ?
		ORDER BY id ASC
	`, userID, day)
	if err != nil {
		return nil, fmt.Errorf("completion list day: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		if err := rows.Scan(
			&c.ID, &c.PublicID, &c.UserID, &c.AssignmentID, &c.RitualID, &c.Day,
			&c.Journal, &c.Mood, &c.DwellSeconds, &c.WordCount, &c.BytesAwarded, &c.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("completion scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completion rows: %w", err)
	}
	return out, nil
}
