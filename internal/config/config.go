// Package config loads the core's typed YAML configuration, grounded
// in the teacher's internal/config.Load: os.ExpandEnv over the raw
// file before yaml.Decode with KnownFields(true), then defaults
// applied field-by-field.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the agentcored core's configuration.
type Config struct {
	Workspace    WorkspaceConfig    `yaml:"workspace"`
	Guardrails   GuardrailsConfig   `yaml:"guardrails"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Sink         SinkConfig         `yaml:"sink"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// WorkspaceConfig locates the single shared workspace root every tool
// resolves paths against; it is one value for all agents, not
// per-agent.
type WorkspaceConfig struct {
	Root string `yaml:"root"`
}

// GuardrailsConfig holds guardrail defaults parsed from YAML and
// filled in by applyDefaults. No other component reads them: a freshly
// scaffolded agent's tools.json gets the built-in default policy from
// pkg/models.
type GuardrailsConfig struct {
	AllowedReadRoots  []string `yaml:"allowed_read_roots"`
	AllowedWriteRoots []string `yaml:"allowed_write_roots"`
	AllowedExecRoots  []string `yaml:"allowed_exec_roots"`
	DeniedCommands    []string `yaml:"denied_commands"`
	MaxOutputBytes    int64    `yaml:"max_output_bytes"`
	MaxProcesses      int      `yaml:"max_processes"`
	RateLimitPerMin   int      `yaml:"rate_limit_per_minute"`
}

// OrchestratorConfig holds the Session Orchestrator's progress-persist
// throttle, which serve passes to orchestrator.Config.
// HeartbeatInterval and RotateAfterBytes are parsed (HeartbeatInterval
// defaults to 12s) but no component reads them: the stream heartbeat is
// the fixed stream.HeartbeatInterval and the event log never rotates.
type OrchestratorConfig struct {
	ProgressMinChars     int           `yaml:"progress_min_chars"`
	ProgressMinInterval  time.Duration `yaml:"progress_min_interval"`
	HeartbeatInterval    time.Duration `yaml:"heartbeat_interval"`
	RotateAfterBytes     int64         `yaml:"rotate_after_bytes"`
}

// SinkConfig configures the Persistence Sink's database connection.
type SinkConfig struct {
	Enabled       bool          `yaml:"enabled"`
	DSN           string        `yaml:"dsn"`
	MigrationsDir string        `yaml:"migrations_dir"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// LoggingConfig selects the slog handler's level/format and the
// lumberjack rotation policy for its file sink.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load reads path, expands ${ENV} references, decodes strict YAML,
// and fills in defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(expanded))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("parse config: expected a single YAML document")
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Workspace.Root == "" {
		cfg.Workspace.Root = "./workspace/agents"
	}
	if cfg.Guardrails.MaxOutputBytes == 0 {
		cfg.Guardrails.MaxOutputBytes = 1 << 20 // 1 MiB
	}
	if cfg.Guardrails.MaxProcesses == 0 {
		cfg.Guardrails.MaxProcesses = 4
	}
	if cfg.Guardrails.RateLimitPerMin == 0 {
		cfg.Guardrails.RateLimitPerMin = 60
	}
	if cfg.Orchestrator.ProgressMinChars == 0 {
		cfg.Orchestrator.ProgressMinChars = 24
	}
	if cfg.Orchestrator.ProgressMinInterval == 0 {
		cfg.Orchestrator.ProgressMinInterval = 350 * time.Millisecond
	}
	if cfg.Orchestrator.HeartbeatInterval == 0 {
		cfg.Orchestrator.HeartbeatInterval = 12 * time.Second
	}
	if cfg.Sink.MigrationsDir == "" {
		cfg.Sink.MigrationsDir = "internal/sink/migrations"
	}
	if cfg.Sink.FlushInterval == 0 {
		cfg.Sink.FlushInterval = 5 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 50
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 7
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = 14
	}
}
