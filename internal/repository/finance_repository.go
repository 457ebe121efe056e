package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gridbook/gridbook/internal/model"
	"github.com/gridbook/gridbook/internal/utils"
)

type FinanceRepo struct{ DB *sql.DB }

func NewFinanceRepo(db *sql.DB) *FinanceRepo { return &FinanceRepo{DB: db} }

const financeCols = "id,user_id,entry_date,type,category,amount,description,created_at,updated_at"

func (r *FinanceRepo) Create(ctx context.Context, e *model.FinanceEntry) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO finance_entries (user_id, entry_date, type, category, amount, description) VALUES (?,?,?,?,?,?)",
		e.UserID, e.Date, e.Type, e.Category, e.Amount, e.Description)
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

// ListByUser returns recent transactions, newest first.
func (r *FinanceRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.FinanceEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+financeCols+" FROM finance_entries WHERE user_id=? ORDER BY entry_date DESC, created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FinanceEntry
	for rows.Next() {
		e, err := scanFinance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *FinanceRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.FinanceEntry, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+financeCols+" FROM finance_entries WHERE id=? AND user_id=? LIMIT 1", id, userID)
	e, err := scanFinance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FinanceEntry{}, ErrNotFound
	}
	return e, err
}

func (r *FinanceRepo) Update(ctx context.Context, e *model.FinanceEntry) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE finance_entries SET entry_date=?, type=?, category=?, amount=?, description=? WHERE id=? AND user_id=?",
		e.Date, e.Type, e.Category, e.Amount, e.Description, e.ID, e.UserID)
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

func (r *FinanceRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM finance_entries WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// Summary aggregates income, expenses and balance over [from, to]
// inclusive, rounded to two decimals.
func (r *FinanceRepo) Summary(ctx context.Context, userID uint64, from, to time.Time) (model.FinanceSummary, error) {
	var s model.FinanceSummary
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type='income' THEN amount ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN type='expense' THEN amount ELSE 0 END), 0),
		        COUNT(*)
		 FROM finance_entries WHERE user_id=? AND entry_date BETWEEN ? AND ?`,
		userID, from, to).Scan(&s.Income, &s.Expenses, &s.TransactionCount)
	if err != nil {
		return model.FinanceSummary{}, err
	}
	s.Income = utils.Round2(s.Income)
	s.Expenses = utils.Round2(s.Expenses)
	s.Balance = utils.Round2(s.Income - s.Expenses)
	return s, nil
}

func scanFinance(s rowScanner) (model.FinanceEntry, error) {
	var e model.FinanceEntry
	err := s.Scan(&e.ID, &e.UserID, &e.Date, &e.Type, &e.Category, &e.Amount,
		&e.Description, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
