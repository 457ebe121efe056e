package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gridbook/gridbook/internal/model"
)

type TodoRepo struct{ DB *sql.DB }

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{DB: db} }

const todoCols = "id,user_id,title,description,entry_date,completed,priority,due_date,created_at,updated_at"

func (r *TodoRepo) Create(ctx context.Context, t *model.Todo) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO todos (user_id, title, description, entry_date, completed, priority, due_date) VALUES (?,?,?,?,?,?,?)",
		t.UserID, t.Title, t.Description, t.Date, t.Completed, t.Priority, t.DueDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

func (r *TodoRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Todo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+todoCols+" FROM todos WHERE user_id=? ORDER BY entry_date DESC, created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TodoRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Todo, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+todoCols+" FROM todos WHERE id=? AND user_id=? LIMIT 1", id, userID)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, ErrNotFound
	}
	return t, err
}

func (r *TodoRepo) Update(ctx context.Context, t *model.Todo) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE todos SET title=?, description=?, entry_date=?, completed=?, priority=?, due_date=? WHERE id=? AND user_id=?",
		t.Title, t.Description, t.Date, t.Completed, t.Priority, t.DueDate, t.ID, t.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		if _, gerr := r.GetByIDAndUser(ctx, t.ID, t.UserID); gerr != nil {
			return gerr
		}
	}
	return err
}

func (r *TodoRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM todos WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func scanTodo(s rowScanner) (model.Todo, error) {
	var t model.Todo
	err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Date, &t.Completed,
		&t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
