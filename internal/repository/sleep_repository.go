package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gridbook/gridbook/internal/model"
)

type SleepRepo struct{ DB *sql.DB }

func NewSleepRepo(db *sql.DB) *SleepRepo { return &SleepRepo{DB: db} }

const sleepCols = "id,user_id,entry_date,sleep_time,wake_time,duration,quality,notes,created_at,updated_at"

// Create inserts a sleep entry.  A unique key on (user_id, entry_date)
// allows at most one record per night; a violation surfaces as
// ErrDuplicate.
func (r *SleepRepo) Create(ctx context.Context, e *model.SleepEntry) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sleep_entries (user_id, entry_date, sleep_time, wake_time, duration, quality, notes) VALUES (?,?,?,?,?,?,?)",
		e.UserID, e.Date, e.SleepTime, e.WakeTime, e.Duration, e.Quality, e.Notes)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListByUser returns recent entries, newest first.
func (r *SleepRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.SleepEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+sleepCols+" FROM sleep_entries WHERE user_id=? ORDER BY entry_date DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SleepEntry
	for rows.Next() {
		e, err := scanSleep(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListBetween returns entries with entry_date in [from, to] inclusive,
// newest first, for the weekly stats calculation.
func (r *SleepRepo) ListBetween(ctx context.Context, userID uint64, from, to time.Time) ([]model.SleepEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+sleepCols+" FROM sleep_entries WHERE user_id=? AND entry_date BETWEEN ? AND ? ORDER BY entry_date DESC",
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SleepEntry
	for rows.Next() {
		e, err := scanSleep(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SleepRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.SleepEntry, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+sleepCols+" FROM sleep_entries WHERE id=? AND user_id=? LIMIT 1", id, userID)
	e, err := scanSleep(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SleepEntry{}, ErrNotFound
	}
	return e, err
}

func (r *SleepRepo) Update(ctx context.Context, e *model.SleepEntry) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE sleep_entries SET sleep_time=?, wake_time=?, duration=?, quality=?, notes=? WHERE id=? AND user_id=?",
		e.SleepTime, e.WakeTime, e.Duration, e.Quality, e.Notes, e.ID, e.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		if _, gerr := r.GetByIDAndUser(ctx, e.ID, e.UserID); gerr != nil {
			return gerr
		}
	}
	return err
}

func (r *SleepRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM sleep_entries WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func scanSleep(s rowScanner) (model.SleepEntry, error) {
	var e model.SleepEntry
	err := s.Scan(&e.ID, &e.UserID, &e.Date, &e.SleepTime, &e.WakeTime, &e.Duration,
		&e.Quality, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
