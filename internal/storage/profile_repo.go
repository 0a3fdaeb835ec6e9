package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const DefaultTier = "member"

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, tier, weeks_active, byte_balance, started_at
		FROM profiles
		WHERE user_id = ?
	`, userID)
	var p Profile
	if err := row.Scan(&p.UserID, &p.Tier, &p.WeeksActive, &p.ByteBalance, &p.StartedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profile get: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepo) GetOrCreate(ctx context.Context, userID string) (*Profile, error) {
	p, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, tier) VALUES (?, ?)
	`, userID, DefaultTier); err != nil {
		return nil, fmt.Errorf("profile insert: %w", err)
	}
	return r.Get(ctx, userID)
}

func (r *ProfileRepo) SetTier(ctx context.Context, userID, tier string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET tier = ? WHERE user_id = ?`, tier, userID)
	if err != nil {
		return fmt.Errorf("profile set tier: %w", err)
	}
	return nil
}

// RefreshWeeksActive recomputes weeks active from started_at, only ever
// ratcheting upward, and returns the current value.
func (r *ProfileRepo) RefreshWeeksActive(ctx context.Context, userID string, now time.Time) (int, error) {
	p, err := r.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, err
	}
	weeks := int(now.UTC().Sub(p.StartedAt.UTC()).Hours() / (24 * 7))
	if weeks < 0 {
		weeks = 0
	}
	if weeks <= p.WeeksActive {
		return p.WeeksActive, nil
	}
	if _, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET weeks_active = ? WHERE user_id = ?
	`, weeks, userID); err != nil {
		return 0, fmt.Errorf("profile refresh weeks: %w", err)
	}
	return weeks, nil
}

// Credit adds bytes to the user's balance. This is the default reward
// applier wiring for the CLI.
func (r *ProfileRepo) Credit(ctx context.Context, userID string, bytes int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET byte_balance = byte_balance + ? WHERE user_id = ?
	`, bytes, userID)
	if err != nil {
		return fmt.Errorf("profile credit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("profile credit rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("profile credit: user %q not found", userID)
	}
	return nil
}
