package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gridbook/gridbook/internal/habit"
	"github.com/gridbook/gridbook/internal/model"
)

type TrackingRepo struct{ DB *sql.DB }

func NewTrackingRepo(db *sql.DB) *TrackingRepo { return &TrackingRepo{DB: db} }

const trackingCols = "id,user_id,habit_id,track_date,is_done,created_at,updated_at"

// Create inserts a tracking entry.  A unique key on (habit_id,
// track_date) guards against a second entry for the same day; that
// violation comes back as ErrDuplicate so daily generation can report the
// habit as skipped instead of failing.
func (r *TrackingRepo) Create(ctx context.Context, e *model.TrackingEntry) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO habit_tracking (user_id, habit_id, track_date, is_done) VALUES (?,?,?,?)",
		e.UserID, e.HabitID, e.Date, e.IsDone)
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

// GetByIDAndUser fetches one entry scoped to its owner.
func (r *TrackingRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.TrackingEntry, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+trackingCols+" FROM habit_tracking WHERE id=? AND user_id=? LIMIT 1", id, userID)
	e, err := scanTracking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TrackingEntry{}, ErrNotFound
	}
	return e, err
}

// UpdateDone flips the completion flag of an entry.
func (r *TrackingRepo) UpdateDone(ctx context.Context, id, userID uint64, done bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE habit_tracking SET is_done=? WHERE id=? AND user_id=?", done, id, userID)
	return err
}

// ListByHabitBetween returns a habit's entries with track_date in
// [from, to] inclusive, as engine entries ready for the consistency and
// last-N-days calculations.
func (r *TrackingRepo) ListByHabitBetween(ctx context.Context, habitID uint64, from, to time.Time) ([]habit.Entry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT track_date, is_done FROM habit_tracking WHERE habit_id=? AND track_date BETWEEN ? AND ?",
		habitID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []habit.Entry
	for rows.Next() {
		var e habit.Entry
		if err := rows.Scan(&e.Date, &e.Done); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TrackedHabit joins a tracking entry with the habit it belongs to, used
// by the daily overview endpoint.
type TrackedHabit struct {
	Entry model.TrackingEntry
	Habit model.Habit
}

// ListForDate returns the user's entries for one calendar day together
// with their habits, oldest entry first.
func (r *TrackingRepo) ListForDate(ctx context.Context, userID uint64, date time.Time) ([]TrackedHabit, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.id, t.user_id, t.habit_id, t.track_date, t.is_done, t.created_at, t.updated_at,
		        h.id, h.user_id, h.name, h.reason, h.duration, h.reward, h.start_date, h.created_at, h.updated_at
		 FROM habit_tracking t
		 JOIN habits h ON h.id = t.habit_id
		 WHERE t.user_id=? AND t.track_date=?
		 ORDER BY t.created_at ASC`,
		userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrackedHabit
	for rows.Next() {
		var th TrackedHabit
		var dur string
		if err := rows.Scan(
			&th.Entry.ID, &th.Entry.UserID, &th.Entry.HabitID, &th.Entry.Date, &th.Entry.IsDone,
			&th.Entry.CreatedAt, &th.Entry.UpdatedAt,
			&th.Habit.ID, &th.Habit.UserID, &th.Habit.Name, &th.Habit.Reason, &dur,
			&th.Habit.Reward, &th.Habit.StartDate, &th.Habit.CreatedAt, &th.Habit.UpdatedAt,
		); err != nil {
			return nil, err
		}
		th.Habit.Duration = habit.Duration(dur)
		out = append(out, th)
	}
	return out, rows.Err()
}

// ExistingForDate reports which of the user's habits already have an
// entry on the given day.
func (r *TrackingRepo) ExistingForDate(ctx context.Context, userID uint64, date time.Time) (map[uint64]bool, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT habit_id FROM habit_tracking WHERE user_id=? AND track_date=?", userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uint64]bool{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// History returns the most recent entries for a habit, newest first.
func (r *TrackingRepo) History(ctx context.Context, userID, habitID uint64, limit int) ([]model.TrackingEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+trackingCols+" FROM habit_tracking WHERE user_id=? AND habit_id=? ORDER BY track_date DESC LIMIT ?",
		userID, habitID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TrackingEntry
	for rows.Next() {
		e, err := scanTracking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanTracking(s rowScanner) (model.TrackingEntry, error) {
	var e model.TrackingEntry
	err := s.Scan(&e.ID, &e.UserID, &e.HabitID, &e.Date, &e.IsDone, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
