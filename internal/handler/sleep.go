package handler

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gridbook/gridbook/internal/habit"
	"github.com/gridbook/gridbook/internal/model"
	"github.com/gridbook/gridbook/internal/repository"
	"github.com/gridbook/gridbook/internal/utils"
)

// SleepHandler serves sleep log CRUD and the weekly statistics view.
type SleepHandler struct {
	Sleep *repository.SleepRepo
}

func NewSleepHandler(s *repository.SleepRepo) *SleepHandler {
	return &SleepHandler{Sleep: s}
}

type sleepReq struct {
	Date      string   `json:"date"`
	SleepTime string   `json:"sleepTime"`
	WakeTime  string   `json:"wakeTime"`
	Duration  *float64 `json:"duration"`
	Quality   string   `json:"quality"`
	Notes     string   `json:"notes"`
}

var hhmmRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// qualityOrDefault fills in "good" when the client omits quality; the
// column is a NOT NULL enum and an empty string is not a member of it.
func qualityOrDefault(q string) string {
	if q == "" {
		return "good"
	}
	return q
}

// Create records one night of sleep.  At most one entry per day; a
// second create for the same date is rejected.
func (h *SleepHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req sleepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !hhmmRe.MatchString(req.SleepTime) || !hhmmRe.MatchString(req.WakeTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sleepTime and wakeTime must be HH:MM"})
	}
	quality := qualityOrDefault(req.Quality)
	if !model.SleepQualities[quality] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quality"})
	}
	if req.Duration == nil || *req.Duration < 0 || *req.Duration > 24 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be between 0 and 24 hours"})
	}
	date := habit.Midnight(time.Now())
	if req.Date != "" {
		if date, err = parseDate(req.Date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e := model.SleepEntry{
		UserID:    userID,
		Date:      date,
		SleepTime: req.SleepTime,
		WakeTime:  req.WakeTime,
		Duration:  *req.Duration,
		Quality:   quality,
		Notes:     req.Notes,
	}
	if err := h.Sleep.Create(ctx, &e); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sleep entry already exists for this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create entry failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"entry": e})
}

// List returns recent sleep entries, newest first, up to 30.
func (h *SleepHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	entries, err := h.Sleep.ListByUser(ctx, userID, 30)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries, "count": len(entries)})
}

// Get returns one sleep entry by id.
func (h *SleepHandler) Get(c echo.Context) error {
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

	e, err := h.Sleep.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entry": e})
}

// Update changes one sleep entry.  The date itself is fixed; delete and
// recreate to move an entry to another day.
func (h *SleepHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req sleepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Sleep.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.SleepTime != "" {
		if !hhmmRe.MatchString(req.SleepTime) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sleepTime must be HH:MM"})
		}
		e.SleepTime = req.SleepTime
	}
	if req.WakeTime != "" {
		if !hhmmRe.MatchString(req.WakeTime) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "wakeTime must be HH:MM"})
		}
		e.WakeTime = req.WakeTime
	}
	if req.Quality != "" {
		if !model.SleepQualities[req.Quality] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quality"})
		}
		e.Quality = req.Quality
	}
	if req.Duration != nil {
		if *req.Duration < 0 || *req.Duration > 24 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration must be between 0 and 24 hours"})
		}
		e.Duration = *req.Duration
	}
	if req.Notes != "" {
		e.Notes = req.Notes
	}
	if err := h.Sleep.Update(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update entry failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entry": e})
}

// Delete removes a sleep entry.
func (h *SleepHandler) Delete(c echo.Context) error {
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

	if err := h.Sleep.Delete(ctx, id, userID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete entry failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "entry deleted"})
}

// WeeklyStats summarises the last seven calendar days, today included.
func (h *SleepHandler) WeeklyStats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	today := habit.Midnight(time.Now())
	from := today.AddDate(0, 0, -6)
	entries, err := h.Sleep.ListBetween(ctx, userID, from, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var total float64
	for _, e := range entries {
		total += e.Duration
	}
	stats := model.SleepWeeklyStats{Days: len(entries), Status: "red"}
	if len(entries) > 0 {
		stats.TotalHours = utils.Round2(total)
		stats.Average = utils.Round2(total / float64(len(entries)))
	}
	if stats.Average >= 8 {
		stats.Status = "green"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"from":  from.Format("2006-01-02"),
		"to":    today.Format("2006-01-02"),
		"stats": stats,
	})
}
