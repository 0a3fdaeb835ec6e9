package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// AssignedSince lists ritual ids assigned to the user on or after day
// (days compare lexicographically in YYYY-MM-DD form). Backs the 30-day
// no-repeat window.
func (r *HistoryRepo) AssignedSince(ctx context.Context, userID, day string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ritual_id FROM ritual_history
		WHERE user_id = ? AND last_assigned_day >= ?
	`, userID, day)
	if err != nil {
		return nil, fmt.Errorf("history assigned since: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return out, nil
}

func (r *HistoryRepo) Get(ctx context.Context, userID, ritualID string) (*RitualHistory, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, ritual_id, last_assigned_day, times_completed
		FROM ritual_history
		WHERE user_id = ? AND ritual_id = ?
	`, userID, ritualID)
	var h RitualHistory
	if err := row.Scan(&h.UserID, &h.RitualID, &h.LastAssignedDay, &h.TimesCompleted); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("history get: %w", err)
	}
	return &h, nil
}

// TouchAssignedTx records that ritualID was assigned to the user on day.
func (r *HistoryRepo) TouchAssignedTx(ctx context.Context, tx *sql.Tx, userID, ritualID, day string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ritual_history (user_id, ritual_id, last_assigned_day, times_completed)
		VALUES (?, ?, ?, 0)
		ON CONFLICT(user_id, ritual_id) DO UPDATE SET last_assigned_day = excluded.last_assigned_day
	`, userID, ritualID, day)
	if err != nil {
		return fmt.Errorf("history touch assigned: %w", err)
	}
	return nil
}

// BumpCompletedTx increments the cumulative completion counter.
func (r *HistoryRepo) BumpCompletedTx(ctx context.Context, tx *sql.Tx, userID, ritualID, day string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ritual_history (user_id, ritual_id, last_assigned_day, times_completed)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(user_id, ritual_id) DO UPDATE SET times_completed = times_completed + 1
	`, userID, ritualID, day)
	if err != nil {
		return fmt.Errorf("history bump completed: %w", err)
	}
	return nil
}
