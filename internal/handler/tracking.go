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

// TrackingHandler serves the daily tracking surface: today's overview,
// idempotent entry generation, same-day completion toggles, and history.
type TrackingHandler struct {
	Habits   *repository.HabitRepo
	Tracking *repository.TrackingRepo
}

func NewTrackingHandler(h *repository.HabitRepo, t *repository.TrackingRepo) *TrackingHandler {
	return &TrackingHandler{Habits: h, Tracking: t}
}

// todayRow is one habit in the daily overview.
type todayRow struct {
	Entry         model.TrackingEntry `json:"entry"`
	Habit         model.Habit         `json:"habit"`
	Consistency   float64             `json:"consistency"`
	DaysCompleted int                 `json:"daysCompleted"`
	DaysElapsed   int                 `json:"daysElapsed"`
}

// Today lists the user's tracking entries for the current day together
// with each habit's consistency so far.
func (h *TrackingHandler) Today(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	now := time.Now()
	today := habit.Midnight(now)
	tracked, err := h.Tracking.ListForDate(ctx, userID, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	rows := make([]todayRow, 0, len(tracked))
	for _, t := range tracked {
		w := habit.ResolveWindow(t.Habit.StartDate, t.Habit.Duration, now)
		entries, err := h.Tracking.ListByHabitBetween(ctx, t.Habit.ID, w.Start, w.End)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tracking failed"})
		}
		cons := habit.ComputeConsistency(t.Habit.StartDate, t.Habit.Duration, entries, now)
		rows = append(rows, todayRow{
			Entry:         t.Entry,
			Habit:         t.Habit,
			Consistency:   cons.Percent,
			DaysCompleted: cons.DaysCompleted,
			DaysElapsed:   cons.DaysElapsed,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"date":    today.Format("2006-01-02"),
		"entries": rows,
		"count":   len(rows),
	})
}

// Generate creates today's tracking entry for every habit still inside
// its window.  The operation is idempotent: habits that already have an
// entry for today, or whose duration has run out, are reported as
// skipped with a reason.
func (h *TrackingHandler) Generate(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	today := habit.Midnight(time.Now())
	habits, err := h.Habits.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	existing, err := h.Tracking.ExistingForDate(ctx, userID, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	refs := make([]habit.Ref, 0, len(habits))
	names := make(map[uint64]string, len(habits))
	for _, hb := range habits {
		refs = append(refs, habit.Ref{ID: hb.ID, Name: hb.Name, StartDate: hb.StartDate, Duration: hb.Duration})
		names[hb.ID] = hb.Name
	}
	toCreate, skipped := habit.PlanDailyEntries(refs, existing, today)

	created := make([]habit.CreatedEntry, 0, len(toCreate))
	for _, ref := range toCreate {
		e := model.TrackingEntry{UserID: userID, HabitID: ref.ID, Date: today}
		if err := h.Tracking.Create(ctx, &e); err != nil {
			if err == repository.ErrDuplicate {
				// Lost a race with a concurrent generate; same outcome.
				skipped = append(skipped, habit.SkippedEntry{
					HabitID: ref.ID, HabitName: names[ref.ID], Reason: habit.ReasonExists,
				})
				continue
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create entry failed"})
		}
		created = append(created, habit.CreatedEntry{HabitID: ref.ID, HabitName: names[ref.ID], EntryID: e.ID})
	}

	if skipped == nil {
		skipped = []habit.SkippedEntry{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":    today.Format("2006-01-02"),
		"created": created,
		"skipped": skipped,
	})
}

type updateDoneReq struct {
	IsDone *bool `json:"isDone"`
}

// UpdateDone toggles completion on a tracking entry.  Only the current
// day's entry may be changed; the past is read-only.
func (h *TrackingHandler) UpdateDone(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateDoneReq
	if err := c.Bind(&req); err != nil || req.IsDone == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "isDone is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Tracking.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	today := habit.Midnight(time.Now())
	if !habit.Midnight(e.Date).Equal(today) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "You can only update today's entries"})
	}

	if err := h.Tracking.UpdateDone(ctx, id, userID, *req.IsDone); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update entry failed"})
	}
	e.IsDone = *req.IsDone
	return c.JSON(http.StatusOK, echo.Map{"entry": e})
}

// History returns the most recent tracking entries of one habit, newest
// first, up to 30 rows.
func (h *TrackingHandler) History(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	habitID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid habit id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Habits.GetByIDAndUser(ctx, habitID, userID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	entries, err := h.Tracking.History(ctx, userID, habitID, 30)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries, "count": len(entries)})
}
