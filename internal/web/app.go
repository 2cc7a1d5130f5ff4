// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package web

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/oops"

	"github.com/jobgate/jobgate/internal/auth"
	"github.com/jobgate/jobgate/internal/observability"
)

// Options configures the HTTP server.
type Options struct {
	Service *auth.Service
	Logger  *slog.Logger
	// Metrics is optional; when nil no counters are recorded.
	Metrics *observability.Metrics
	// CookieSecure controls the Secure attribute on the session cookie.
	// Disable only for plain-HTTP development setups.
	CookieSecure bool
}

// Server is the portal's HTTP API server.
type Server struct {
	app          *fiber.App
	service      *auth.Service
	logger       *slog.Logger
	metrics      *observability.Metrics
	cookieSecure bool
}

// NewServer creates the server and wires its routes.
func NewServer(opts Options) (*Server, error) {
	if opts.Service == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "jobgate",
			DisableStartupMessage: true,
		}),
		service:      opts.Service,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		cookieSecure: opts.CookieSecure,
	}

	s.app.Use(s.RequestID())

	api := s.app.Group("/auth")
	api.Post("/register", s.Register)
	api.Post("/login", s.Login)
	api.Post("/logout", s.Logout)
	api.Get("/me", s.RequireSession(), s.Me)

	return s, nil
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	if err := s.app.Listen(addr); err != nil {
		return oops.Code("HTTP_LISTEN_FAILED").
			With("addr", addr).
			Wrap(err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return oops.Code("HTTP_SHUTDOWN_FAILED").Wrap(err)
	}
	return nil
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}
