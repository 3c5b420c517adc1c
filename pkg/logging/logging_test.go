package logging

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("writes JSON records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("stage finished", slog.String("stage", "clean"), slog.Int("rows", 260))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"stage finished"`)
		assert.Contains(t, output, `"stage":"clean"`)
		assert.Contains(t, output, `"rows":260`)
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogHelpers(t *testing.T) {
	t.Run("LogError includes error and attrs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "stage failed", assert.AnError, slog.String("path", "data/menu.csv"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"stage failed"`)
		assert.Contains(t, output, `"error":"assert.AnError general error for testing"`)
		assert.Contains(t, output, `"path":"data/menu.csv"`)
	})

	t.Run("LogOperation skips zero duration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "scored", slog.Int("rows", 3), slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"scored"`)
		assert.Contains(t, output, `"rows":3`)
		assert.NotContains(t, output, `"duration"`)
	})

	t.Run("LogOperation keeps non-zero duration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "scored", slog.Duration("duration", time.Second))

		assert.Contains(t, buf.String(), `"duration"`)
	})

	t.Run("nil logger is a no-op", func(t *testing.T) {
		LogError(nil, "ignored", assert.AnError)
		LogOperation(nil, "ignored")
	})
}

type errorCloser struct{ err error }

func (e *errorCloser) Close() error { return e.err }

func TestSafeCloseWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	SafeCloseWithLogging(&errorCloser{}, logger, "close_ok")
	assert.Empty(t, buf.String())

	SafeCloseWithLogging(&errorCloser{err: assert.AnError}, logger, "close_input")
	assert.Contains(t, buf.String(), `"msg":"failed to close resource"`)
	assert.Contains(t, buf.String(), `"operation":"close_input"`)

	SafeCloseWithLogging(nil, logger, "nil")
}

func TestLogHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogHTTPRequest(logger, "GET", "/api/v1/items", 200, 1.5, slog.String("component", "http_server"))

	output := buf.String()
	assert.Contains(t, output, `"msg":"http_request"`)
	assert.Contains(t, output, `"path":"/api/v1/items"`)
	assert.Contains(t, output, `"status":200`)
	assert.Contains(t, output, `"duration_ms":1.5`)
	assert.Contains(t, output, `"component":"http_server"`)

	LogHTTPRequest(nil, "GET", "/", 200, 0)
}
