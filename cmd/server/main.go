package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/gridbook/gridbook/internal/config"
	"github.com/gridbook/gridbook/internal/database"
	"github.com/gridbook/gridbook/internal/handler"
	"github.com/gridbook/gridbook/internal/mailer"
	"github.com/gridbook/gridbook/internal/queue"
	"github.com/gridbook/gridbook/internal/repository"
	"github.com/gridbook/gridbook/internal/router"
)

func main() {
	// .env is a development convenience; in production the variables come
	// from the environment and the file is simply absent.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	habits := repository.NewHabitRepo(db)
	tracking := repository.NewTrackingRepo(db)
	formulas := repository.NewFormulaRepo(db)
	finance := repository.NewFinanceRepo(db)
	sleep := repository.NewSleepRepo(db)
	journal := repository.NewJournalRepo(db)
	mistakes := repository.NewMistakeRepo(db)
	todos := repository.NewTodoRepo(db)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, mail),
		Habit:    handler.NewHabitHandler(habits, tracking),
		Tracking: handler.NewTrackingHandler(habits, tracking),
		Formula:  handler.NewFormulaHandler(formulas),
		Finance:  handler.NewFinanceHandler(finance),
		Sleep:    handler.NewSleepHandler(sleep),
		Journal:  handler.NewJournalHandler(journal),
		Mistake:  handler.NewMistakeHandler(mistakes),
		Todo:     handler.NewTodoHandler(todos),
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterPublic(e, h, config.LoadRateLimitConfig(), rdb)
	router.RegisterAPI(e, h, cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	// The audit consumer drains login events into logs/audit.log and
	// reconnects on its own when the broker drops.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
