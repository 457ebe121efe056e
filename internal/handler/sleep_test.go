package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbook/gridbook/internal/model"
)

func TestQualityOrDefault(t *testing.T) {
	assert.Equal(t, "good", qualityOrDefault(""))
	assert.Equal(t, "poor", qualityOrDefault("poor"))

	// The default must itself be a valid enum member.
	assert.True(t, model.SleepQualities[qualityOrDefault("")])
}

func postSleep(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/sleep", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))

	// Validation failures return before any repository call.
	h := NewSleepHandler(nil)
	require.NoError(t, h.Create(c))
	return rec
}

func TestSleepCreateRejectsInvalidQuality(t *testing.T) {
	rec := postSleep(t, `{"sleepTime":"23:00","wakeTime":"07:00","duration":8,"quality":"amazing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid quality")
}

func TestSleepCreateRejectsBadTimes(t *testing.T) {
	rec := postSleep(t, `{"sleepTime":"25:00","wakeTime":"07:00","duration":8}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postSleep(t, `{"sleepTime":"23:00","wakeTime":"7am","duration":8}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSleepCreateRejectsBadDuration(t *testing.T) {
	rec := postSleep(t, `{"sleepTime":"23:00","wakeTime":"07:00","duration":25}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postSleep(t, `{"sleepTime":"23:00","wakeTime":"07:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
