package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/gridbook/gridbook/internal/config"
	"github.com/gridbook/gridbook/internal/handler"
	"github.com/gridbook/gridbook/internal/middleware"
)

// Handlers bundles every handler the router mounts.  cmd/server builds
// one of these after wiring repositories and passes it in.
type Handlers struct {
	Auth     *handler.AuthHandler
	Habit    *handler.HabitHandler
	Tracking *handler.TrackingHandler
	Formula  *handler.FormulaHandler
	Finance  *handler.FinanceHandler
	Sleep    *handler.SleepHandler
	Journal  *handler.JournalHandler
	Mistake  *handler.MistakeHandler
	Todo     *handler.TodoHandler
}

// RegisterPublic mounts the health check and the OTP endpoints.  The
// auth group sits behind the Redis token bucket so a single address
// cannot burn through OTP emails.
func RegisterPublic(e *echo.Echo, h Handlers, rl config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth", middleware.NewTokenBucket(rl, rdb))
	g.POST("/send-otp", h.Auth.SendOTP)
	g.POST("/verify-otp", h.Auth.VerifyOTP)
}

// RegisterAPI mounts every authenticated endpoint under /v1.  All routes
// require a valid session token; GET responses are served from the
// per-user Redis cache when enabled.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string, cache config.CacheConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.NewResponseCache(cache, rdb),
	)

	g.GET("/me", h.Auth.Me)

	g.POST("/habits", h.Habit.Create)
	g.GET("/habits", h.Habit.List)
	g.GET("/habits/:id", h.Habit.Get)
	g.PUT("/habits/:id", h.Habit.Update)
	g.DELETE("/habits/:id", h.Habit.Delete)
	g.GET("/habits/:id/history", h.Tracking.History)

	// Daily tracking nests under habits.  The generate route is a POST
	// because a run can create rows, even though it is idempotent.
	g.GET("/habits/tracking/today", h.Tracking.Today)
	g.POST("/habits/tracking/generate", h.Tracking.Generate)
	g.PATCH("/habits/tracking/:id", h.Tracking.UpdateDone)

	g.POST("/formulas", h.Formula.Create)
	g.GET("/formulas", h.Formula.List)
	g.GET("/formulas/:id", h.Formula.Get)
	g.PUT("/formulas/:id", h.Formula.Update)
	g.DELETE("/formulas/:id", h.Formula.Delete)
	g.POST("/formulas/:id/execute", h.Formula.Execute)

	g.POST("/finance", h.Finance.Create)
	g.GET("/finance", h.Finance.List)
	g.GET("/finance/summary/monthly", h.Finance.MonthlySummary)
	g.GET("/finance/summary/total", h.Finance.TotalSummary)
	g.GET("/finance/:id", h.Finance.Get)
	g.PUT("/finance/:id", h.Finance.Update)
	g.DELETE("/finance/:id", h.Finance.Delete)

	g.POST("/sleep", h.Sleep.Create)
	g.GET("/sleep", h.Sleep.List)
	g.GET("/sleep/stats/weekly", h.Sleep.WeeklyStats)
	g.GET("/sleep/:id", h.Sleep.Get)
	g.PUT("/sleep/:id", h.Sleep.Update)
	g.DELETE("/sleep/:id", h.Sleep.Delete)

	g.POST("/journal", h.Journal.Create)
	g.GET("/journal", h.Journal.List)
	g.GET("/journal/:id", h.Journal.Get)
	g.PUT("/journal/:id", h.Journal.Update)
	g.DELETE("/journal/:id", h.Journal.Delete)

	g.POST("/mistakes", h.Mistake.Create)
	g.GET("/mistakes", h.Mistake.List)
	g.GET("/mistakes/:id", h.Mistake.Get)
	g.PUT("/mistakes/:id", h.Mistake.Update)
	g.DELETE("/mistakes/:id", h.Mistake.Delete)

	g.POST("/todos", h.Todo.Create)
	g.GET("/todos", h.Todo.List)
	g.GET("/todos/:id", h.Todo.Get)
	g.PUT("/todos/:id", h.Todo.Update)
	g.DELETE("/todos/:id", h.Todo.Delete)
}
