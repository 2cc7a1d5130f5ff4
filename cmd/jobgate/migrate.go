// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/jobgate/jobgate/internal/config"
	"github.com/jobgate/jobgate/internal/store"
)

// migrateConfig holds configuration for the migrate subcommand.
type migrateConfig struct {
	down bool
}

// newMigrateCmd creates the migrate subcommand with all flags configured.
func newMigrateCmd() *cobra.Command {
	mcfg := &migrateConfig{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending database migrations against the PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runMigrate(cmd, cfg, mcfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&mcfg.down, "down", false, "roll back all migrations instead of applying them")

	return cmd
}

func runMigrate(cmd *cobra.Command, cfg config.Config, mcfg *migrateConfig) error {
	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrln("warning: failed to close migrator:", closeErr)
		}
	}()

	if mcfg.down {
		cmd.Println("Rolling back migrations...")
		if err := migrator.Down(); err != nil {
			return err
		}
		cmd.Println("Rollback completed successfully")
		return nil
	}

	cmd.Println("Running migrations...")
	if err := migrator.Up(); err != nil {
		return err
	}
	cmd.Println("Migrations completed successfully")
	return nil
}
