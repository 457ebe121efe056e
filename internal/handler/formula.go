package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gridbook/gridbook/internal/formula"
	"github.com/gridbook/gridbook/internal/model"
	"github.com/gridbook/gridbook/internal/repository"
)

// FormulaHandler serves saved formula CRUD and execution.
type FormulaHandler struct {
	Formulas *repository.FormulaRepo
}

func NewFormulaHandler(f *repository.FormulaRepo) *FormulaHandler {
	return &FormulaHandler{Formulas: f}
}

type formulaReq struct {
	Name       string            `json:"name"`
	Expression string            `json:"formula"`
	Variables  map[string]string `json:"variables"`
}

type executeReq struct {
	Values map[string]any `json:"values"`
}

// cleanVariables trims keys and values and drops empty keys.
func cleanVariables(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// Create stores a formula after a syntax check with zero-valued
// variables, so obviously broken expressions are rejected up front.
func (h *FormulaHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req formulaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Expression = strings.TrimSpace(req.Expression)
	if req.Name == "" || req.Expression == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and formula are required"})
	}

	zero := make(map[string]float64)
	for _, v := range formula.Variables(req.Expression) {
		zero[v] = 0
	}
	if _, err := formula.Evaluate(req.Expression, zero); err != nil && !errors.Is(err, formula.ErrNonFinite) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid formula: " + err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	f := model.Formula{
		UserID:     userID,
		Name:       req.Name,
		Expression: req.Expression,
		Variables:  cleanVariables(req.Variables),
	}
	if err := h.Formulas.Create(ctx, &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create formula failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"formula": f})
}

// List returns the user's formulas, newest first, up to 100.
func (h *FormulaHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	formulas, err := h.Formulas.ListByUser(ctx, userID, 100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"formulas": formulas, "count": len(formulas)})
}

// Get returns one formula by id.
func (h *FormulaHandler) Get(c echo.Context) error {
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

	f, err := h.Formulas.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "formula not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"formula": f})
}

// Update replaces a formula's fields.  Any change clears the cached
// result, since it was computed against the old expression.
func (h *FormulaHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req formulaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	f, err := h.Formulas.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "formula not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Name != "" {
		f.Name = req.Name
	}
	if expr := strings.TrimSpace(req.Expression); expr != "" {
		zero := make(map[string]float64)
		for _, v := range formula.Variables(expr) {
			zero[v] = 0
		}
		if _, err := formula.Evaluate(expr, zero); err != nil && !errors.Is(err, formula.ErrNonFinite) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid formula: " + err.Error()})
		}
		f.Expression = expr
	}
	if req.Variables != nil {
		f.Variables = cleanVariables(req.Variables)
	}
	if err := h.Formulas.Update(ctx, &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update formula failed"})
	}
	f.Result = nil
	return c.JSON(http.StatusOK, echo.Map{"formula": f})
}

// Delete removes a formula.
func (h *FormulaHandler) Delete(c echo.Context) error {
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

	if err := h.Formulas.Delete(ctx, id, userID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "formula not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete formula failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "formula deleted"})
}

// Execute evaluates a formula against the caller's variable values and
// stores the result.
func (h *FormulaHandler) Execute(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req executeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	f, err := h.Formulas.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "formula not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	values := formula.CoerceValues(req.Values)
	result, err := formula.Evaluate(f.Expression, values)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Formulas.SaveResult(ctx, id, userID, result); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save result failed"})
	}

	f.Result = &result
	return c.JSON(http.StatusOK, echo.Map{"result": result, "formula": f})
}
