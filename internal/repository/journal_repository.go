package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/gridbook/gridbook/internal/model"
)

type JournalRepo struct{ DB *sql.DB }

func NewJournalRepo(db *sql.DB) *JournalRepo { return &JournalRepo{DB: db} }

const journalCols = "id,user_id,entry_date,title,content,mood,tags,created_at,updated_at"

func (r *JournalRepo) Create(ctx context.Context, e *model.JournalEntry) error {
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO journal_entries (user_id, entry_date, title, content, mood, tags) VALUES (?,?,?,?,?,?)",
		e.UserID, e.Date, e.Title, e.Content, e.Mood, tags)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

func (r *JournalRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.JournalEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+journalCols+" FROM journal_entries WHERE user_id=? ORDER BY entry_date DESC, created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.JournalEntry
	for rows.Next() {
		e, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *JournalRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.JournalEntry, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+journalCols+" FROM journal_entries WHERE id=? AND user_id=? LIMIT 1", id, userID)
	e, err := scanJournal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.JournalEntry{}, ErrNotFound
	}
	return e, err
}

func (r *JournalRepo) Update(ctx context.Context, e *model.JournalEntry) error {
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE journal_entries SET entry_date=?, title=?, content=?, mood=?, tags=? WHERE id=? AND user_id=?",
		e.Date, e.Title, e.Content, e.Mood, tags, e.ID, e.UserID)
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

func (r *JournalRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM journal_entries WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func scanJournal(s rowScanner) (model.JournalEntry, error) {
	var e model.JournalEntry
	var tags []byte
	err := s.Scan(&e.ID, &e.UserID, &e.Date, &e.Title, &e.Content, &e.Mood, &tags,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &e.Tags); err != nil {
			return e, err
		}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}
