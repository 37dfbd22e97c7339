package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nexusforge/agentcore/internal/config"
	"github.com/nexusforge/agentcore/internal/sink"
)

// buildMigrateCmd creates the "migrate" command that applies the
// Persistence Sink's schema migrations (golang-migrate/migrate/v4),
// grounded in the teacher's "migrate up" command shape.
func buildMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply persistence sink schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.Sink.Enabled {
				slog.Info("sink disabled, nothing to migrate")
				return nil
			}
			if err := sink.ApplyMigrations(cfg.Sink.DSN, cfg.Sink.MigrationsDir); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			slog.Info("migrations applied", "migrations_dir", cfg.Sink.MigrationsDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "core.yaml", "Path to YAML configuration file")
	return cmd
}
