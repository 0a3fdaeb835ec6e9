package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type DailyStateRepo struct {
	db *sql.DB
}

func NewDailyStateRepo(db *sql.DB) *DailyStateRepo {
	return &DailyStateRepo{db: db}
}

const dailyStateCols = `user_id, day, rituals_completed, cap_reached, rerolled, streak_days, weeks_active, last_completion_at`

func (r *DailyStateRepo) Get(ctx context.Context, userID, day string) (*DailyState, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+dailyStateCols+`
		FROM daily_state
		WHERE user_id = ? AND day = ?
	`, userID, day)
	return scanDailyState(row)
}

// GetOrCreate returns the state row for (userID, day), inserting a fresh row
// if none exists. weeksActive is snapshotted into new rows and ratcheted up
// on existing ones (totalWeeksActive never decreases).
func (r *DailyStateRepo) GetOrCreate(ctx context.Context, userID, day string, weeksActive int) (*DailyState, error) {
	st, err := r.Get(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if st != nil {
		if weeksActive > st.WeeksActive {
			st.WeeksActive = weeksActive
			if _, err := r.db.ExecContext(ctx, `
				UPDATE daily_state SET weeks_active = ? WHERE user_id = ? AND day = ?
			`, weeksActive, userID, day); err != nil {
				return nil, fmt.Errorf("daily state bump weeks: %w", err)
			}
		}
		return st, nil
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO daily_state (user_id, day, weeks_active) VALUES (?, ?, ?)
	`, userID, day, weeksActive); err != nil {
		return nil, fmt.Errorf("daily state insert: %w", err)
	}
	return r.Get(ctx, userID, day)
}

// MarkRerolledTx flips the rerolled flag inside the reroll transaction.
func (r *DailyStateRepo) MarkRerolledTx(ctx context.Context, tx *sql.Tx, userID, day string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE daily_state SET rerolled = 1 WHERE user_id = ? AND day = ?
	`, userID, day)
	if err != nil {
		return fmt.Errorf("daily state mark rerolled: %w", err)
	}
	return nil
}

// ApplyCompletionTx records a completion against the day's state inside the
// completion transaction.
func (r *DailyStateRepo) ApplyCompletionTx(ctx context.Context, tx *sql.Tx, st *DailyState) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE daily_state
		SET rituals_completed = ?, cap_reached = ?, streak_days = ?, last_completion_at = ?
		WHERE user_id = ? AND day = ?
	`, st.RitualsCompleted, boolToInt(st.CapReached), st.StreakDays, st.LastCompletionAt, st.UserID, st.Day)
	if err != nil {
		return fmt.Errorf("daily state apply completion: %w", err)
	}
	return nil
}

func scanDailyState(row scanner) (*DailyState, error) {
	var (
		st         DailyState
		capReached int
		rerolled   int
		lastAt     sql.NullTime
	)
	if err := row.Scan(
		&st.UserID, &st.Day, &st.RitualsCompleted, &capReached, &rerolled,
		&st.StreakDays, &st.WeeksActive, &lastAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("daily state scan: %w", err)
	}
	st.CapReached = capReached != 0
	st.Rerolled = rerolled != 0
	if lastAt.Valid {
		v := lastAt.Time
		st.LastCompletionAt = &v
	}
	return &st, nil
}

type scanner interface {
	Scan(dest ...any) error
}
