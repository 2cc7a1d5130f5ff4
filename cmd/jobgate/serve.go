// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobgate/jobgate/internal/auth"
	authpg "github.com/jobgate/jobgate/internal/auth/postgres"
	"github.com/jobgate/jobgate/internal/config"
	"github.com/jobgate/jobgate/internal/logging"
	"github.com/jobgate/jobgate/internal/observability"
	"github.com/jobgate/jobgate/internal/store"
	"github.com/jobgate/jobgate/internal/web"
)

const (
	shutdownTimeout = 5 * time.Second

	// sweepInterval is how often the server reclaims expired session rows.
	// The rows are already unusable; this only bounds table growth. The
	// sweep subcommand covers deployments that prefer cron.
	sweepInterval = time.Hour
)

// newServeCmd creates the serve subcommand with all flags configured.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the portal's HTTP API server, serving the authentication
endpoints on the configured listen address. Also starts the metrics/health
server unless its address is empty.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

// runServe wires the service together and blocks until shutdown.
func runServe(ctx context.Context, cfg config.Config) error {
	logging.SetDefault("jobgate", version, cfg.LogFormat)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger.Info("connected to database")

	users := authpg.NewUserRepository(pool)
	sessions := authpg.NewSessionRepository(pool)

	sessionSvc, err := auth.NewSessionService(sessions, users, cfg.Session.Lifetime)
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(users, sessionSvc, auth.NewArgon2idHasher())
	if err != nil {
		return err
	}

	// Metrics/health server. Readiness follows database connectivity.
	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.ObservabilityListen != "" {
		obsServer = observability.NewServer(cfg.ObservabilityListen, func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrChan, err := obsServer.Start()
		if err != nil {
			return err
		}
		go func() {
			if obsErr := <-obsErrChan; obsErr != nil {
				logger.Error("observability server error", "error", obsErr)
			}
		}()
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	go sweepLoop(ctx, sessionSvc, metrics, logger)

	server, err := web.NewServer(web.Options{
		Service:      authSvc,
		Logger:       logger,
		Metrics:      metrics,
		CookieSecure: cfg.Cookie.Secure,
	})
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Listen(cfg.Listen)
	}()
	logger.Info("http server listening", "addr", cfg.Listen)

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("observability server shutdown error", "error", err)
		}
	}

	return nil
}

// sweepLoop periodically deletes expired session rows until ctx is done.
func sweepLoop(ctx context.Context, sessions *auth.SessionService, metrics *observability.Metrics, logger *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n, err := sessions.SweepExpired(ctx)
		if err != nil {
			logger.Warn("session sweep failed", "error", err)
			continue
		}
		if metrics != nil {
			metrics.SessionsSweptTotal.Add(float64(n))
		}
		if n > 0 {
			logger.Info("swept expired sessions", "count", n)
		}
	}
}
