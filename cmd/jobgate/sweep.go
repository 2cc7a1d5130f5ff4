// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/jobgate/jobgate/internal/auth"
	authpg "github.com/jobgate/jobgate/internal/auth/postgres"
	"github.com/jobgate/jobgate/internal/config"
	"github.com/jobgate/jobgate/internal/store"
)

// newSweepCmd creates the sweep subcommand.
// Expired sessions already fail to resolve; sweeping just reclaims the rows,
// so this runs out-of-band (cron or similar) rather than inside the server.
func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired session rows",
		Long: `Delete all session rows whose expiry has passed and report how
many were removed. Intended to run periodically, e.g. from cron.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runSweep(cmd, cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runSweep(cmd *cobra.Command, cfg config.Config) error {
	ctx := cmd.Context()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	sessions := authpg.NewSessionRepository(pool)
	svc, err := auth.NewSessionService(sessions, authpg.NewUserRepository(pool), cfg.Session.Lifetime)
	if err != nil {
		return err
	}

	n, err := svc.SweepExpired(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Removed %d expired session(s)\n", n)
	return nil
}
