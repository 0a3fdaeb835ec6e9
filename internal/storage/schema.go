package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			tier TEXT NOT NULL DEFAULT 'member',
			weeks_active INTEGER NOT NULL DEFAULT 0,
			byte_balance INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS daily_state (
			user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			rituals_completed INTEGER NOT NULL DEFAULT 0,
			cap_reached INTEGER NOT NULL DEFAULT 0,
			rerolled INTEGER NOT NULL DEFAULT 0,
			streak_days INTEGER NOT NULL DEFAULT 0,
			weeks_active INTEGER NOT NULL DEFAULT 0,
			last_completion_at DATETIME,
			PRIMARY KEY (user_id, day)
		);`,
		`CREATE TABLE IF NOT EXISTS assignments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			ritual_id_1 TEXT NOT NULL,
			ritual_id_2 TEXT,
			weeks_active INTEGER NOT NULL DEFAULT 0,
			mode TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, day)
		);`,
		// Append-only; the unique index is the idempotency backstop for
		// retried completion requests.
		`CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			public_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			assignment_id INTEGER NOT NULL,
			ritual_id TEXT NOT NULL,
			day TEXT NOT NULL,
			journal TEXT NOT NULL,
			mood INTEGER NOT NULL DEFAULT 0,
			dwell_seconds INTEGER NOT NULL DEFAULT 0,
			word_count INTEGER NOT NULL DEFAULT 0,
			bytes_awarded INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME NOT NULL,
			UNIQUE (user_id, assignment_id, ritual_id)
		);`,
		`CREATE TABLE IF NOT EXISTS ritual_history (
			user_id TEXT NOT NULL,
			ritual_id TEXT NOT NULL,
			last_assigned_day TEXT NOT NULL,
			times_completed INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, ritual_id)
		);`,
		`CREATE TABLE IF NOT EXISTS pending_rewards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			bytes INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_user_completed_at ON completions(user_id, completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_user_day ON completions(user_id, day);`,
		`CREATE INDEX IF NOT EXISTS idx_ritual_history_user_day ON ritual_history(user_id, last_assigned_day);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
