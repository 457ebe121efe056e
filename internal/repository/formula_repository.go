package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/gridbook/gridbook/internal/model"
)

type FormulaRepo struct{ DB *sql.DB }

func NewFormulaRepo(db *sql.DB) *FormulaRepo { return &FormulaRepo{DB: db} }

const formulaCols = "id,user_id,name,expression,variables,result,created_at,updated_at"

// Create inserts a formula; the variables map is stored as JSON.
func (r *FormulaRepo) Create(ctx context.Context, f *model.Formula) error {
	vars, err := json.Marshal(f.Variables)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO formulas (user_id, name, expression, variables, result) VALUES (?,?,?,?,?)",
		f.UserID, f.Name, f.Expression, vars, f.Result)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// ListByUser returns the user's formulas, newest first, capped at limit.
func (r *FormulaRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Formula, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+formulaCols+" FROM formulas WHERE user_id=? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Formula
	for rows.Next() {
		f, err := scanFormula(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByIDAndUser fetches one formula scoped to its owner.
func (r *FormulaRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Formula, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+formulaCols+" FROM formulas WHERE id=? AND user_id=? LIMIT 1", id, userID)
	f, err := scanFormula(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Formula{}, ErrNotFound
	}
	return f, err
}

// Update rewrites name, expression and variables.  The cached result is
// reset; it only gets a value again on execution.
func (r *FormulaRepo) Update(ctx context.Context, f *model.Formula) error {
	vars, err := json.Marshal(f.Variables)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE formulas SET name=?, expression=?, variables=?, result=NULL WHERE id=? AND user_id=?",
		f.Name, f.Expression, vars, f.ID, f.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		if _, gerr := r.GetByIDAndUser(ctx, f.ID, f.UserID); gerr != nil {
			return gerr
		}
	}
	f.Result = nil
	return err
}

// SaveResult caches the latest execution result.  The cache is cosmetic:
// reads never trust it and executions always recompute.
func (r *FormulaRepo) SaveResult(ctx context.Context, id, userID uint64, result float64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE formulas SET result=? WHERE id=? AND user_id=?", result, id, userID)
	return err
}

// Delete removes a formula.
func (r *FormulaRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM formulas WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func scanFormula(s rowScanner) (model.Formula, error) {
	var f model.Formula
	var vars []byte
	err := s.Scan(&f.ID, &f.UserID, &f.Name, &f.Expression, &vars, &f.Result,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return f, err
	}
	if len(vars) > 0 {
		if err := json.Unmarshal(vars, &f.Variables); err != nil {
			return f, err
		}
	}
	if f.Variables == nil {
		f.Variables = map[string]string{}
	}
	return f, nil
}
