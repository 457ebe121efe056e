package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gridbook/gridbook/internal/habit"
	"github.com/gridbook/gridbook/internal/model"
)

type HabitRepo struct{ DB *sql.DB }

func NewHabitRepo(db *sql.DB) *HabitRepo { return &HabitRepo{DB: db} }

const habitCols = "id,user_id,name,reason,duration,reward,start_date,created_at,updated_at"

// Create inserts a habit and fills in its generated id.
func (r *HabitRepo) Create(ctx context.Context, h *model.Habit) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO habits (user_id, name, reason, duration, reward, start_date) VALUES (?,?,?,?,?,?)",
		h.UserID, h.Name, h.Reason, string(h.Duration), h.Reward, h.StartDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// ListByUser returns the user's habits, newest first.
func (r *HabitRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Habit, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+habitCols+" FROM habits WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches one habit scoped to its owner.
func (r *HabitRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Habit, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+habitCols+" FROM habits WHERE id=? AND user_id=? LIMIT 1", id, userID)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Habit{}, ErrNotFound
	}
	return h, err
}

// Update rewrites the editable fields.  The start date stays fixed at
// creation; only name, reason, duration and reward change.
func (r *HabitRepo) Update(ctx context.Context, h *model.Habit) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE habits SET name=?, reason=?, duration=?, reward=? WHERE id=? AND user_id=?",
		h.Name, h.Reason, string(h.Duration), h.Reward, h.ID, h.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		// Either missing or unchanged; distinguish by reading back.
		if _, gerr := r.GetByIDAndUser(ctx, h.ID, h.UserID); gerr != nil {
			return gerr
		}
	}
	return err
}

// Delete removes a habit; tracking entries go with it via the foreign
// key's ON DELETE CASCADE.
func (r *HabitRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM habits WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(s rowScanner) (model.Habit, error) {
	var h model.Habit
	var dur string
	err := s.Scan(&h.ID, &h.UserID, &h.Name, &h.Reason, &dur, &h.Reward,
		&h.StartDate, &h.CreatedAt, &h.UpdatedAt)
	h.Duration = habit.Duration(dur)
	return h, err
}
