package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gridbook/gridbook/internal/habit"
	"github.com/gridbook/gridbook/internal/model"
	"github.com/gridbook/gridbook/internal/repository"
)

// FinanceHandler serves income/expense CRUD and the summary endpoints.
type FinanceHandler struct {
	Finance *repository.FinanceRepo
}

func NewFinanceHandler(f *repository.FinanceRepo) *FinanceHandler {
	return &FinanceHandler{Finance: f}
}

type financeReq struct {
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
}

func validFinanceType(t string) bool {
	return t == model.FinanceIncome || t == model.FinanceExpense
}

// Create records one transaction.  Date defaults to today.
func (h *FinanceHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req financeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validFinanceType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be income or expense"})
	}
	if req.Amount == nil || *req.Amount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be a non-negative number"})
	}
	if req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category is required"})
	}
	date := habit.Midnight(time.Now())
	if req.Date != "" {
		if date, err = parseDate(req.Date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e := model.FinanceEntry{
		UserID:      userID,
		Date:        date,
		Type:        req.Type,
		Category:    req.Category,
		Amount:      *req.Amount,
		Description: req.Description,
	}
	if err := h.Finance.Create(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create entry failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"entry": e})
}

// List returns recent transactions, newest first, up to 200.
func (h *FinanceHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	entries, err := h.Finance.ListByUser(ctx, userID, 200)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries, "count": len(entries)})
}

// Get returns one transaction by id.
func (h *FinanceHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Finance.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entry": e})
}

// Update changes a transaction's fields.
func (h *FinanceHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req financeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Finance.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Type != "" {
		if !validFinanceType(req.Type) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be income or expense"})
		}
		e.Type = req.Type
	}
	if req.Category != "" {
		e.Category = req.Category
	}
	if req.Description != "" {
		e.Description = req.Description
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be a non-negative number"})
		}
		e.Amount = *req.Amount
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		e.Date = date
	}
	if err := h.Finance.Update(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update entry failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entry": e})
}

// Delete removes a transaction.
func (h *FinanceHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Finance.Delete(ctx, id, userID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete entry failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "entry deleted"})
}

// MonthlySummary aggregates the current calendar month.  The month may
// be overridden with ?month=YYYY-MM.
func (h *FinanceHandler) MonthlySummary(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	now := time.Now().UTC()
	year, month := now.Year(), now.Month()
	if m := c.QueryParam("month"); m != "" {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month, use YYYY-MM"})
		}
		year, month = t.Year(), t.Month()
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).AddDate(0, 0, -1)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Finance.Summary(ctx, userID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"month":   from.Format("2006-01"),
		"summary": s,
	})
}

// TotalSummary aggregates the user's entire history.
func (h *FinanceHandler) TotalSummary(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	to := habit.Midnight(time.Now())
	s, err := h.Finance.Summary(ctx, userID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"summary": s})
}
