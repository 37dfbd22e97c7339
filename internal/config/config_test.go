package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "core.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
workspace:
  root: /tmp/agents
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/agents", cfg.Workspace.Root)
	require.Equal(t, int64(1<<20), cfg.Guardrails.MaxOutputBytes)
	require.Equal(t, 4, cfg.Guardrails.MaxProcesses)
	require.Equal(t, 60, cfg.Guardrails.RateLimitPerMin)
	require.Equal(t, 24, cfg.Orchestrator.ProgressMinChars)
	require.Equal(t, 350*time.Millisecond, cfg.Orchestrator.ProgressMinInterval)
	require.Equal(t, 12*time.Second, cfg.Orchestrator.HeartbeatInterval)
	require.Equal(t, "internal/sink/migrations", cfg.Sink.MigrationsDir)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	require.NoError(t, os.Setenv("AGENTCORE_TEST_DSN", "postgres://example/db"))
	defer os.Unsetenv("AGENTCORE_TEST_DSN")

	path := writeConfig(t, `
sink:
  enabled: true
  dsn: ${AGENTCORE_TEST_DSN}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://example/db", cfg.Sink.DSN)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
workspace:
  root: /tmp/agents
  bogus_field: nope
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, `
workspace:
  root: /tmp/agents
---
workspace:
  root: /tmp/other
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
