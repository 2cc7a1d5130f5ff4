// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Jobgate Contributors

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jobgate/jobgate/internal/config"
	"github.com/jobgate/jobgate/internal/store"
)

// ServiceStatus holds the status information reported by the status command.
type ServiceStatus struct {
	Database         string `json:"database"`
	MigrationVersion uint   `json:"migration_version,omitempty"`
	MigrationDirty   bool   `json:"migration_dirty,omitempty"`
	Error            string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status subcommand.
type statusConfig struct {
	jsonOutput bool
}

// newStatusCmd creates the status subcommand with all flags configured.
func newStatusCmd() *cobra.Command {
	scfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database connectivity and migration status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runStatus(cmd, cfg, scfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&scfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg config.Config, scfg *statusConfig) error {
	status := queryStatus(cmd, cfg)

	if scfg.jsonOutput {
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Printf("database:          %s\n", status.Database)
	if status.Error != "" {
		cmd.Printf("error:             %s\n", status.Error)
		return nil
	}
	if status.MigrationVersion == 0 && !status.MigrationDirty {
		cmd.Println("migration version: none applied")
		return nil
	}
	cmd.Printf("migration version: %d (dirty: %v)\n", status.MigrationVersion, status.MigrationDirty)
	return nil
}

func queryStatus(cmd *cobra.Command, cfg config.Config) ServiceStatus {
	status := ServiceStatus{Database: "unreachable"}

	pool, err := store.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	pool.Close()
	status.Database = "ok"

	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer func() { _ = migrator.Close() }()

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.MigrationVersion = version
	status.MigrationDirty = dirty
	return status
}
