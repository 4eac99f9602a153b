// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost presentation layer boundary.
  - It is the composition root for the HTTP transport (chi router).
  - Authentication is not global: each domain handler applies the
    authorization gate to its own protected route groups.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/tahmin/internal/core/article"
	"github.com/taibuivan/tahmin/internal/core/editor"
	"github.com/taibuivan/tahmin/internal/core/football"
	"github.com/taibuivan/tahmin/internal/core/prediction"
	"github.com/taibuivan/tahmin/internal/platform/config"
	"github.com/taibuivan/tahmin/internal/platform/constants"
	"github.com/taibuivan/tahmin/internal/platform/middleware"
	"github.com/taibuivan/tahmin/internal/users/account"
	"github.com/taibuivan/tahmin/internal/users/admin"
	"github.com/taibuivan/tahmin/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in cmd/api with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 when all dependencies are healthy.
	Readiness http.HandlerFunc

	Auth       *auth.Handler
	Account    *account.Handler
	Admin      *admin.Handler
	Article    *article.Handler
	Prediction *prediction.Handler
	Editor     *editor.Handler
	Football   *football.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	// CORS headers must be on every response, 429s included, or browsers
	// report a rate limit as a CORS failure.
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.Diagnostics(!cfg.IsProduction()))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Mount("/admin", h.Admin.Routes())
		api.Mount("/articles", h.Article.Routes())
		api.Mount("/predictions", h.Prediction.Routes())
		api.Mount("/matches", h.Prediction.MatchRoutes())
		api.Mount("/editors", h.Editor.Routes())
		api.Mount("/football", h.Football.Routes())
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

// Handler returns the root HTTP handler.
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
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
