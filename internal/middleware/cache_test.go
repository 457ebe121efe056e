package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func keyFor(target, route string, uid uint64) string {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(route)
	return cacheKey("cache", uid, c)
}

func TestCacheKeyDistinguishesIDs(t *testing.T) {
	// Two resources that resolve to the same route template must never
	// share a cache entry.
	k1 := keyFor("/v1/habits/1", "/v1/habits/:id", 42)
	k2 := keyFor("/v1/habits/2", "/v1/habits/:id", 42)
	assert.NotEqual(t, k1, k2)
}

func TestCacheKeyStableForSameRequest(t *testing.T) {
	k1 := keyFor("/v1/habits/1", "/v1/habits/:id", 42)
	k2 := keyFor("/v1/habits/1", "/v1/habits/:id", 42)
	assert.Equal(t, k1, k2)
}

func TestCacheKeyDistinguishesUsers(t *testing.T) {
	k1 := keyFor("/v1/habits", "/v1/habits", 1)
	k2 := keyFor("/v1/habits", "/v1/habits", 2)
	assert.NotEqual(t, k1, k2)
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	k1 := keyFor("/v1/finance/summary/monthly?month=2026-07", "/v1/finance/summary/monthly", 1)
	k2 := keyFor("/v1/finance/summary/monthly?month=2026-08", "/v1/finance/summary/monthly", 1)
	assert.NotEqual(t, k1, k2)
}
