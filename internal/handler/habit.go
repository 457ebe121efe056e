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

// HabitHandler serves habit CRUD plus the consistency decoration every
// habit response carries.
type HabitHandler struct {
	Habits   *repository.HabitRepo
	Tracking *repository.TrackingRepo
}

func NewHabitHandler(h *repository.HabitRepo, t *repository.TrackingRepo) *HabitHandler {
	return &HabitHandler{Habits: h, Tracking: t}
}

type habitReq struct {
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	Duration  string `json:"duration"`
	Reward    string `json:"reward"`
	StartDate string `json:"startDate"`
}

// habitView is a habit decorated with its live consistency score and a
// rolling view of the last five days.
type habitView struct {
	model.Habit
	Consistency   float64           `json:"consistency"`
	DaysCompleted int               `json:"daysCompleted"`
	DaysElapsed   int               `json:"daysElapsed"`
	LastFiveDays  []habit.DayStatus `json:"lastFiveDays"`
}

// decorate loads the habit's tracking entries and attaches the computed
// consistency and last-five-days view.
func (h *HabitHandler) decorate(ctx context.Context, hb model.Habit, now time.Time) (habitView, error) {
	w := habit.ResolveWindow(hb.StartDate, hb.Duration, now)
	entries, err := h.Tracking.ListByHabitBetween(ctx, hb.ID, w.Start, w.End)
	if err != nil {
		return habitView{}, err
	}
	cons := habit.ComputeConsistency(hb.StartDate, hb.Duration, entries, now)
	return habitView{
		Habit:         hb,
		Consistency:   cons.Percent,
		DaysCompleted: cons.DaysCompleted,
		DaysElapsed:   cons.DaysElapsed,
		LastFiveDays:  habit.LastNDays(entries, now, 5),
	}, nil
}

// Create registers a new habit.  StartDate defaults to today when the
// client omits it.
func (h *HabitHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req habitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	dur := habit.Duration(req.Duration)
	if !dur.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration, use one of 15day/1month/3month/6month/1year"})
	}
	start := habit.Midnight(time.Now())
	if req.StartDate != "" {
		if start, err = parseDate(req.StartDate); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startDate"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hb := model.Habit{
		UserID:    userID,
		Name:      req.Name,
		Reason:    req.Reason,
		Duration:  dur,
		Reward:    req.Reward,
		StartDate: start,
	}
	if err := h.Habits.Create(ctx, &hb); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create habit failed"})
	}

	view, err := h.decorate(ctx, hb, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load habit failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"habit": view})
}

// List returns all of the user's habits, newest first, each with its
// consistency attached.
func (h *HabitHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	habits, err := h.Habits.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now()
	views := make([]habitView, 0, len(habits))
	for _, hb := range habits {
		v, err := h.decorate(ctx, hb, now)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tracking failed"})
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"habits": views, "count": len(views)})
}

// Get returns one habit by id with its consistency attached.
func (h *HabitHandler) Get(c echo.Context) error {
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

	hb, err := h.Habits.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	view, err := h.decorate(ctx, hb, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tracking failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"habit": view})
}

// Update changes a habit's mutable fields.  The start date is the anchor
// of the tracking window and cannot be changed after creation.
func (h *HabitHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req habitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hb, err := h.Habits.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Name != "" {
		hb.Name = req.Name
	}
	if req.Reason != "" {
		hb.Reason = req.Reason
	}
	if req.Reward != "" {
		hb.Reward = req.Reward
	}
	if req.Duration != "" {
		dur := habit.Duration(req.Duration)
		if !dur.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration, use one of 15day/1month/3month/6month/1year"})
		}
		hb.Duration = dur
	}
	if err := h.Habits.Update(ctx, &hb); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update habit failed"})
	}

	view, err := h.decorate(ctx, hb, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tracking failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"habit": view})
}

// Delete removes a habit; its tracking entries go with it via the
// foreign key cascade.
func (h *HabitHandler) Delete(c echo.Context) error {
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

	if err := h.Habits.Delete(ctx, id, userID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete habit failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "habit deleted"})
}
