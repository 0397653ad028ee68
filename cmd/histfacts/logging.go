package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ersonp/histfacts/internal/infrastructure/config"
)

// newLogger builds the process logger, letting the global flags win over
// the configured level and format.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	if globalLogLevel != "" {
		cfg.Level = globalLogLevel
	}
	if globalLogFormat != "" {
		cfg.Format = globalLogFormat
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q, valid formats: text, json", cfg.Format)
	}
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
