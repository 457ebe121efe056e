package model

import "time"

// Finance entry types.
const (
	FinanceIncome  = "income"
	FinanceExpense = "expense"
)

// FinanceEntry mirrors the `finance_entries` table.  Amount is always
// non-negative; the Type column says whether it adds to or subtracts from
// the balance.
type FinanceEntry struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"userId"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FinanceSummary aggregates a set of transactions over a date range.
type FinanceSummary struct {
	Income           float64 `json:"income"`
	Expenses         float64 `json:"expenses"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transactionCount"`
}
