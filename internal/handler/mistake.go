package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gridbook/gridbook/internal/model"
	"github.com/gridbook/gridbook/internal/repository"
)

// MistakeHandler serves mistake log CRUD.
type MistakeHandler struct {
	Mistakes *repository.MistakeRepo
}

func NewMistakeHandler(m *repository.MistakeRepo) *MistakeHandler {
	return &MistakeHandler{Mistakes: m}
}

type mistakeReq struct {
	Mistake  string `json:"mistake"`
	Reason   string `json:"reason"`
	Solution string `json:"solution"`
}

func (h *MistakeHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req mistakeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Mistake == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mistake is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m := model.Mistake{
		UserID:   userID,
		Mistake:  req.Mistake,
		Reason:   req.Reason,
		Solution: req.Solution,
	}
	if err := h.Mistakes.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create mistake failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"mistake": m})
}

func (h *MistakeHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	mistakes, err := h.Mistakes.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mistakes": mistakes, "count": len(mistakes)})
}

func (h *MistakeHandler) Get(c echo.Context) error {
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

	m, err := h.Mistakes.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mistake not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mistake": m})
}

func (h *MistakeHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req mistakeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.Mistakes.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mistake not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Mistake != "" {
		m.Mistake = req.Mistake
	}
	if req.Reason != "" {
		m.Reason = req.Reason
	}
	if req.Solution != "" {
		m.Solution = req.Solution
	}
	if err := h.Mistakes.Update(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update mistake failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mistake": m})
}

func (h *MistakeHandler) Delete(c echo.Context) error {
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

	if err := h.Mistakes.Delete(ctx, id, userID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mistake not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete mistake failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "mistake deleted"})
}
