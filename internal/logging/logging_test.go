package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/internal/config"
)

func TestNewProducesJSONHandlerByDefault(t *testing.T) {
	logger := New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Dir:    t.TempDir(),
	})
	require.NotNil(t, logger)
	require.True(t, logger.Handler().Enabled(context.Background(), slog.LevelInfo))
	require.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevelRecognizesAllLevels(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLevel("warn"))
	require.Equal(t, slog.LevelError, parseLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLevel("info"))
	require.Equal(t, slog.LevelInfo, parseLevel("unknown"))
}

func TestNewWritesToRotatedFile(t *testing.T) {
	dir := t.TempDir()
	logger := New(config.LoggingConfig{
		Level:      "debug",
		Format:     "json",
		Dir:        dir,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	logger.Info("hello from test")

	path := filepath.Join(dir, "core.log")
	require.Eventually(t, func() bool {
		info, err := os.Stat(path)
		return err == nil && info.Size() > 0
	}, time.Second, 10*time.Millisecond)
}
