package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/histfacts/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{input: "", expected: slog.LevelInfo},
		{input: "debug", expected: slog.LevelDebug},
		{input: "WARN", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, config.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "attempt", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, float64(2), entry["attempt"])
}

func TestNewLogger_FlagsOverrideConfig(t *testing.T) {
	globalLogLevel = "error"
	t.Cleanup(func() { globalLogLevel = "" })

	var buf bytes.Buffer
	logger, err := newLogger(&buf, config.LogConfig{Level: "debug", Format: "text"})
	require.NoError(t, err)

	logger.Warn("suppressed")
	assert.Empty(t, buf.String())
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, config.LogConfig{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}
