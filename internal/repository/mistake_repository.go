package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gridbook/gridbook/internal/model"
)

type MistakeRepo struct{ DB *sql.DB }

func NewMistakeRepo(db *sql.DB) *MistakeRepo { return &MistakeRepo{DB: db} }

const mistakeCols = "id,user_id,mistake,reason,solution,created_at,updated_at"

func (r *MistakeRepo) Create(ctx context.Context, m *model.Mistake) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO mistakes (user_id, mistake, reason, solution) VALUES (?,?,?,?)",
		m.UserID, m.Mistake, m.Reason, m.Solution)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

func (r *MistakeRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Mistake, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+mistakeCols+" FROM mistakes WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Mistake
	for rows.Next() {
		m, err := scanMistake(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MistakeRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Mistake, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+mistakeCols+" FROM mistakes WHERE id=? AND user_id=? LIMIT 1", id, userID)
	m, err := scanMistake(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Mistake{}, ErrNotFound
	}
	return m, err
}

func (r *MistakeRepo) Update(ctx context.Context, m *model.Mistake) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE mistakes SET mistake=?, reason=?, solution=? WHERE id=? AND user_id=?",
		m.Mistake, m.Reason, m.Solution, m.ID, m.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		if _, gerr := r.GetByIDAndUser(ctx, m.ID, m.UserID); gerr != nil {
			return gerr
		}
	}
	return err
}

func (r *MistakeRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM mistakes WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func scanMistake(s rowScanner) (model.Mistake, error) {
	var m model.Mistake
	err := s.Scan(&m.ID, &m.UserID, &m.Mistake, &m.Reason, &m.Solution,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}
