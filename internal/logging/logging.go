// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/vitalstats/internal/model"
)

// ParseLevel maps a level name to a slog level. Unknown names mean warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Level returns the effective level: verbose lowers it to info at most
func Level(cfg model.LoggingConfig, verbose bool) slog.Level {
	level := ParseLevel(cfg.Level)
	if verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}
	return level
}

// New builds a logger writing to w (stderr when nil)
func New(cfg model.LoggingConfig, verbose bool, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: Level(cfg, verbose)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Init installs a logger built from cfg as the slog default
func Init(cfg model.LoggingConfig, verbose bool) *slog.Logger {
	logger := New(cfg, verbose, os.Stderr)
	slog.SetDefault(logger)
	return logger
}
