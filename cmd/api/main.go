// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the ChurchOS HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from .env and environment variables.
//  3. Connect to PostgreSQL (pgxpool) and run migrations.
//  4. Connect to Redis for the navigation memo.
//  5. Build the access registry and the token verifier.
//  6. Wire HTTP handlers and start the feed relay.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/internal/api"
	"github.com/taibuivan/churchos/internal/clientconfig"
	"github.com/taibuivan/churchos/internal/feed"
	"github.com/taibuivan/churchos/internal/giving"
	"github.com/taibuivan/churchos/internal/membership"
	"github.com/taibuivan/churchos/internal/navigation"
	"github.com/taibuivan/churchos/internal/platform/config"
	"github.com/taibuivan/churchos/internal/platform/constants"
	"github.com/taibuivan/churchos/internal/platform/migration"
	pgstore "github.com/taibuivan/churchos/internal/platform/postgres"
	redisstore "github.com/taibuivan/churchos/internal/platform/redis"
	"github.com/taibuivan/churchos/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		var validationErr *config.ValidationError
		if errors.As(err, &validationErr) {
			log.Error("configuration_invalid",
				slog.Any("missing", validationErr.Missing),
				slog.Any("invalid", validationErr.Invalid),
			)
			os.Exit(1)
		}
	}
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("version", cfg.AppVersion),
	)

	// Root context: cancelled on SIGINT/SIGTERM, stops pollers and the rate limiter janitor.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Startup gets a 30s deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("redis_client_closing")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Access & Auth ──────────────────────────────────────────────────
	registry, err := access.NewDefaultRegistry()
	must(log, err, "build navigation registry")
	log.Info("navigation_registry_ready",
		slog.String("version", registry.Version()),
		slog.Int("items", len(registry.Items())),
	)

	tokenService, err := sec.NewTokenService(cfg.JWTPubKeyPath, cfg.JWTIssuer)
	must(log, err, "initialize token verifier")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: pgstore.Checker(pool),
		CheckCache:    redisstore.Checker(rdb),
	}, log)

	navigationService := navigation.NewService(registry, navigation.NewRedisCache(rdb), cfg.NavigationCacheTTL)
	membershipService := membership.NewService(membership.NewPostgresRepository(pool), registry.Catalog())

	upstream := feed.NewClient(cfg.ActiveBackendAPIURL(), &http.Client{Timeout: constants.UpstreamRequestTimeout})
	relay := feed.NewRelay(upstream, log)
	if cfg.FeedsEnabled {
		relay.Start(rootCtx)
	} else {
		log.Info("feed_relay_disabled")
	}

	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Giving:       giving.NewHandler(),
		ClientConfig: clientconfig.NewHandler(cfg),
		Navigation:   navigation.NewHandler(navigationService),
		Feed:         feed.NewHandler(relay),
		Membership:   membership.NewHandler(membershipService),
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, tokenService, handlers)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
		stop()
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
	}

	relay.Wait()
	log.Info("server_stopped")
}

// newLogger builds the process-wide JSON logger at level.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
