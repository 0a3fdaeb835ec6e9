package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// PendingRewardRepo is the compensation queue for reward credits that failed
// after their completion was already committed.
type PendingRewardRepo struct {
	db *sql.DB
}

func NewPendingRewardRepo(db *sql.DB) *PendingRewardRepo {
	return &PendingRewardRepo{db: db}
}

func (r *PendingRewardRepo) Insert(ctx context.Context, userID string, bytes int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_rewards (user_id, bytes) VALUES (?, ?)
	`, userID, bytes)
	if err != nil {
		return 0, fmt.Errorf("pending reward insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("pending reward last insert id: %w", err)
	}
	return id, nil
}

func (r *PendingRewardRepo) List(ctx context.Context) ([]PendingReward, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, bytes, created_at FROM pending_rewards ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("pending reward list: %w", err)
	}
	defer rows.Close()

	var out []PendingReward
	for rows.Next() {
		var p PendingReward
		if err := rows.Scan(&p.ID, &p.UserID, &p.Bytes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("pending reward scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pending reward rows: %w", err)
	}
	return out, nil
}

func (r *PendingRewardRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("pending reward delete: %w", err)
	}
	return nil
}
