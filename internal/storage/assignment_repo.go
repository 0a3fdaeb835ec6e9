package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type AssignmentRepo struct {
	db *sql.DB
}

func NewAssignmentRepo(db *sql.DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

const assignmentCols = `id, user_id, day, ritual_id_1, ritual_id_2, weeks_active, mode, created_at`

func (r *AssignmentRepo) Get(ctx context.Context, id int64) (*Assignment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+assignmentCols+` FROM assignments WHERE id = ?
	`, id)
	return scanAssignment(row)
}

func (r *AssignmentRepo) GetForDay(ctx context.Context, userID, day string) (*Assignment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+assignmentCols+` FROM assignments WHERE user_id = ? AND day = ?
	`, userID, day)
	return scanAssignment(row)
}

type AssignmentInsert struct {
	UserID      string
	Day         string
	RitualID1   string
	RitualID2   *string
	WeeksActive int
	Mode        string
}

func (r *AssignmentRepo) InsertTx(ctx context.Context, tx *sql.Tx, in AssignmentInsert) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO assignments (user_id, day, ritual_id_1, ritual_id_2, weeks_active, mode)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.UserID, in.Day, in.RitualID1, in.RitualID2, in.WeeksActive, in.Mode)
	if err != nil {
		return 0, fmt.Errorf("assignment insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("assignment last insert id: %w", err)
	}
	return id, nil
}

// DeleteForDayTx removes the day's assignment row ahead of a reroll recreate.
func (r *AssignmentRepo) DeleteForDayTx(ctx context.Context, tx *sql.Tx, userID, day string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE user_id = ? AND day = ?`, userID, day)
	if err != nil {
		return fmt.Errorf("assignment delete: %w", err)
	}
	return nil
}

func scanAssignment(row scanner) (*Assignment, error) {
	var (
		a   Assignment
		id2 sql.NullString
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Day, &a.RitualID1, &id2, &a.WeeksActive, &a.Mode, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("assignment scan: %w", err)
	}
	if id2.Valid {
		v := id2.String
		a.RitualID2 = &v
	}
	return &a, nil
}
