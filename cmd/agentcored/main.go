// Command agentcored runs the agent session orchestrator core as a
// long-lived daemon, grounded in the teacher's cmd/nexus CLI shape:
// a cobra root command with one subcommand per operational concern,
// structured slog logging configured before the command tree runs.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "agentcored",
		Short:        "agentcored - agent session orchestrator core",
		Version:      version + " (commit: " + commit + ")",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(buildServeCmd(), buildMigrateCmd())
	return rootCmd
}
