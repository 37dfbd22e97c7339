// Package logging sets up the core's structured logger, grounded in
// the teacher's cmd/nexus/main.go (slog.NewJSONHandler over
// os.Stderr). Unlike the teacher, the core also writes to a rotating
// file via gopkg.in/natefinch/lumberjack.v2, since the core runs as a
// long-lived daemon rather than a one-shot CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nexusforge/agentcore/internal/config"
)

// New builds the core's logger from cfg, writing JSON or text records
// to both stderr and cfg.Dir/core.log. The file is rotated by size
// (MaxSizeMB), not per day; rotated files are compressed and kept
// according to MaxBackups and MaxAgeDays.
func New(cfg config.LoggingConfig) *slog.Logger {
	level := parseLevel(cfg.Level)

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "core.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	writer := io.MultiWriter(os.Stderr, rotator)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
