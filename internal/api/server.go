// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/churchos/internal/clientconfig"
	"github.com/taibuivan/churchos/internal/feed"
	"github.com/taibuivan/churchos/internal/giving"
	"github.com/taibuivan/churchos/internal/membership"
	"github.com/taibuivan/churchos/internal/navigation"
	"github.com/taibuivan/churchos/internal/platform/config"
	"github.com/taibuivan/churchos/internal/platform/constants"
	"github.com/taibuivan/churchos/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; it returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Giving serves the public giving overview.
	Giving *giving.Handler

	// ClientConfig serves the public shell configuration.
	ClientConfig *clientconfig.Handler

	// Navigation serves visible destinations and the access-control viewer.
	Navigation *navigation.Handler

	// Feed serves the relayed dashboard and prayer feeds.
	Feed *feed.Handler

	// Membership manages the member directory and role assignment.
	Membership *membership.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP(cfg.TrustedProxyPrefixes()))
	r.Use(middleware.TrackIdentity)
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(chimw.CleanPath)
	r.Use(middleware.Authenticate(verifier))

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Public Endpoints
	r.Mount("/api/giving", h.Giving.Routes())

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/client-config", h.ClientConfig.Routes())
		api.Mount("/navigation", h.Navigation.Routes())
		api.Mount("/access", h.Navigation.AccessRoutes())
		api.Mount("/feeds", h.Feed.Routes())
		api.Mount("/members", h.Membership.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
