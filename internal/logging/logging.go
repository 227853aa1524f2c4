// Package logging builds the process logger from LoggingConfig.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"parallel/internal/config"
)

// New returns a logger for cfg together with a close func for file outputs.
func New(cfg config.LoggingConfig) (*slog.Logger, func() error, error) {
	out, closer, err := output(cfg.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return NewWithWriter(cfg, out), closer, nil
}

func NewWithWriter(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel maps debug/info/warn/error onto slog levels; anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func output(path string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch path {
	case "", "stdout":
		return os.Stdout, noop, nil
	case "stderr":
		return os.Stderr, noop, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}
