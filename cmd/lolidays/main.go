// Package main is the entry point for the Lolidays bot.
// Its sole responsibility is wiring dependencies together and starting the
// supervised web server and chat connection. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/slack-go/slack"

	"github.com/pkordes/lolidays/internal/config"
	"github.com/pkordes/lolidays/internal/geocode"
	"github.com/pkordes/lolidays/internal/handler"
	"github.com/pkordes/lolidays/internal/repo"
	"github.com/pkordes/lolidays/internal/service"
	"github.com/pkordes/lolidays/internal/slackbot"
	"github.com/pkordes/lolidays/internal/staticmap"
	"github.com/pkordes/lolidays/internal/supervisor"
	"github.com/pkordes/lolidays/migrations"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("database connection established")

	// goose needs database/sql; borrow a handle backed by the same pool.
	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(ctx, sqlDB)
	_ = sqlDB.Close()
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "count", applied)

	// --- Services ---------------------------------------------------------
	vacationRepo := repo.NewVacationRepo(pool)
	stopRepo := repo.NewStopRepo(pool)

	mapbox := geocode.NewClient(cfg.MapboxToken)
	breaker := geocode.NewBreaker("mapbox-geocoding", mapbox, geocode.BreakerSettings{}, logger)
	locator := geocode.NewLocator(breaker, cfg.GeocodeTimeout, logger)

	vacations := service.NewVacationService(vacationRepo, stopRepo)
	stops := service.NewStopService(vacationRepo, stopRepo, locator)
	maps := staticmap.New(cfg.MapboxToken)

	// --- Web --------------------------------------------------------------
	router := handler.NewServer(vacations, cfg.MapboxToken, logger).Router(handler.RouterOptions{
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
	})
	web := supervisor.NewHTTPService(func() supervisor.HTTPServer {
		// Explicit timeouts prevent slowloris and resource exhaustion attacks.
		return &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}, 15*time.Second)

	// --- Chat -------------------------------------------------------------
	api := slack.New(cfg.SlackBotToken, slack.OptionAppLevelToken(cfg.SlackAppToken))
	bot := slackbot.New(api, vacations, stops, maps, cfg.MapURL(), logger)
	listener := slackbot.NewListener(api, bot, logger)

	// --- Supervision ------------------------------------------------------
	tree := supervisor.NewTree(logger, supervisor.TreeConfig{})
	tree.AddWebService(web)
	tree.AddChatService(listener)

	logger.Info("lolidays starting", "addr", ":"+cfg.Port, "map_url", cfg.MapURL())
	err = tree.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		logger.Warn("services did not stop in time", "count", len(report))
	}
	logger.Info("lolidays stopped")
	return err
}
