package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nexusforge/agentcore/internal/agentcatalog"
	"github.com/nexusforge/agentcore/internal/config"
	"github.com/nexusforge/agentcore/internal/eventlog"
	"github.com/nexusforge/agentcore/internal/logging"
	"github.com/nexusforge/agentcore/internal/metrics"
	"github.com/nexusforge/agentcore/internal/orchestrator"
	"github.com/nexusforge/agentcore/internal/process"
	"github.com/nexusforge/agentcore/internal/provider"
	"github.com/nexusforge/agentcore/internal/provider/mock"
	"github.com/nexusforge/agentcore/internal/sink"
	"github.com/nexusforge/agentcore/internal/tools"
	"github.com/nexusforge/agentcore/internal/toolspolicy"
)

// buildServeCmd creates the "serve" command that starts the core's
// HTTP API and, if configured, the persistence sink — the daemon's
// primary entry point, grounded in the teacher's runServe/buildServeCmd.
func buildServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the agent session orchestrator core",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "core.yaml", "Path to YAML configuration file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	return cmd
}

func runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	catalog := agentcatalog.NewFileStore(cfg.Workspace.Root)
	store := eventlog.NewFileStore(cfg.Workspace.Root)
	processes := process.NewRegistry()
	policy := toolspolicy.NewFileStore(cfg.Workspace.Root)

	modelProvider := buildProvider(cfg)

	// The Orchestrator and Dispatcher depend on each other; build the
	// Orchestrator with a placeholder dispatcher, derive a
	// toolkit.SessionBackend from it, build the real Dispatcher, then
	// inject it back (see orchestrator.SetDispatcher).
	orchCfg := orchestrator.Config{
		ProgressMinChars:    cfg.Orchestrator.ProgressMinChars,
		ProgressMinInterval: cfg.Orchestrator.ProgressMinInterval,
	}
	o := orchestrator.New(store, catalog, processes, modelProvider, nil, orchCfg)
	dispatcher := tools.NewDispatcher(tools.Deps{
		ToolsPolicy:     policy,
		WorkspaceRoot:   cfg.Workspace.Root,
		ProcessRegistry: processes,
		AgentCatalog:    catalog,
		SessionBackend:  orchestrator.NewSessionBackend(o),
	})
	o.SetDispatcher(dispatcher)

	var persist *sink.Sink
	if cfg.Sink.Enabled {
		persist, err = sink.New(sink.Config{
			DSN:             cfg.Sink.DSN,
			MigrationsDir:   cfg.Sink.MigrationsDir,
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			FlushInterval:   cfg.Sink.FlushInterval,
		}, logger)
		if err != nil {
			return fmt.Errorf("init persistence sink: %w", err)
		}
		sinkCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go persist.Run(sinkCtx)
		defer persist.Close()
	}

	api := &apiServer{
		orchestrator: o,
		catalog:      catalog,
		eventlog:     store,
		metrics:      m,
		logger:       logger,
	}

	mux := http.NewServeMux()
	api.registerRoutes(mux)
	mux.Handle("/metrics", promHandler(registry))

	server := &http.Server{Addr: addr, Handler: mux}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("agentcored listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	logger.Info("shutdown signal received, draining in-flight requests")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("agentcored stopped gracefully")
	return nil
}

// buildProvider selects the real LLM-backed provider.ModelProvider
// once one exists; for now the scripted mock keeps the daemon
// runnable end to end during development.
func buildProvider(cfg *config.Config) provider.ModelProvider {
	_ = cfg
	return mock.New()
}
