package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "json to stdout", cfg: &Config{Level: "info", Format: "json", Output: "stdout"}},
		{name: "console to stderr", cfg: &Config{Level: "debug", Format: "console", Output: "stderr"}},
		{name: "empty output defaults to stdout", cfg: &Config{Level: "warn", Format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_FileOutputWritesJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "dealerdesk.log")

	logger, err := New(&Config{Level: "info", Format: "json", Output: logFile})
	require.NoError(t, err)

	logger.Info("car reserved",
		zap.String("registration_number", "AB12345"),
		zap.String("status", "reserved"),
	)
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "car reserved", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "AB12345", entry["registration_number"])
}

func TestNew_LevelFiltersOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "dealerdesk.log")

	logger, err := New(&Config{Level: "warn", Format: "json", Output: logFile})
	require.NoError(t, err)

	logger.Debug("valuation cache miss")
	logger.Info("contract signed")
	logger.Warn("sync job retry scheduled")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	out := string(data)
	assert.NotContains(t, out, "valuation cache miss")
	assert.NotContains(t, out, "contract signed")
	assert.Contains(t, out, "sync job retry scheduled")
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestNewWriter(t *testing.T) {
	for _, output := range []string{"stdout", "STDOUT", "stderr", ""} {
		assert.NotNil(t, newWriter(output))
	}
}

func TestNewWriter_UnwritablePathFallsBack(t *testing.T) {
	// A path that cannot be opened must not leave the logger without a sink.
	writer := newWriter(filepath.Join(t.TempDir(), "missing", "dealerdesk.log"))
	assert.NotNil(t, writer)
}

func TestNewEncoder(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "dealerdesk.log")

	logger, err := New(&Config{Level: "info", Format: "console", Output: logFile})
	require.NoError(t, err)

	logger.Info("payment sync sweep finished")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	// Console output is line-oriented text, not JSON.
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, "payment sync sweep finished")
	assert.False(t, json.Valid([]byte(line)))
}
