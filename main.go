// main.go: jobly API server
// ============================================================
// Startup order:
//
//  1. Structured logger
//  2. Configuration (optional YAML file + environment)
//  3. DB initialisation with hooks, retried while the database comes up
//  4. Token issuer and password hasher
//  5. HTTP server with graceful shutdown
// ============================================================
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Skryldev/jobly/api"
	"github.com/Skryldev/jobly/auth"
	"github.com/Skryldev/jobly/config"
	"github.com/Skryldev/jobly/db"
)

func main() {
	configPath := flag.String("config", os.Getenv("JOBLY_CONFIG"), "path to a YAML config file")
	flag.Parse()

	// ── 0. Structured logger ──────────────────────────────────────────────
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── 1. Configuration ─────────────────────────────────────────────────
	cfg, err := config.Load(*configPath, os.Getenv)
	if err != nil {
		fatalf("config: %v", err)
	}
	lvl, _ := cfg.Level()
	level.Set(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 2. DB initialisation ─────────────────────────────────────────────
	stats := &db.QueryStats{}
	hooks := []db.Hook{
		db.NewLogHook(db.LogHookConfig{
			Logger:             logger,
			SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
			LogArgs:            cfg.Database.LogArgs,
		}),
		db.NewMetricsHook(stats),
	}

	var database *db.DB
	err = db.WithRetry(ctx, db.RetryConfig{
		MaxAttempts: max(1, cfg.Database.ConnectAttempts),
		Delay:       cfg.Database.ConnectDelay,
	}, func() error {
		var openErr error
		database, openErr = cfg.Database.Open(hooks...)
		if openErr != nil {
			slog.Warn("database not ready", "driver", cfg.Database.Driver, "error", openErr)
		}
		return openErr
	})
	if err != nil {
		fatalf("database: %v", err)
	}
	defer database.Close()
	slog.Info("database connected", "driver", cfg.Database.Driver, "stats", database.Stats())

	// ── 3. Auth ──────────────────────────────────────────────────────────
	issuer, err := auth.NewIssuer(auth.Config{
		Secret: []byte(cfg.Auth.Secret),
		TTL:    cfg.Auth.TokenTTL,
		Issuer: "jobly",
	})
	if err != nil {
		fatalf("auth: %v", err)
	}

	// ── 4. HTTP ──────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: api.NewServer(api.Deps{
			DB:     database,
			Issuer: issuer,
			Hasher: auth.Hasher{Cost: cfg.Auth.BcryptCost},
			Logger: logger,
			Stats:  stats,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			fatalf("http: %v", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
	slog.Info("stopped", "queries", stats.Snapshot())
}

func fatalf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
