package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "": slog.LevelInfo,
		"warn": slog.LevelWarn, "error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestJSONLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "json", slog.LevelInfo)

	LogError(logger, "load failed", errors.New("boom"), slog.String("path", "x.csv"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "load failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "x.csv", entry["path"])

	buf.Reset()
	LogOperation(logger, "dataset cleaned", slog.Int("rows", 3), slog.Duration("duration", 0))
	entry = map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.EqualValues(t, 3, entry["rows"])
	_, hasDuration := entry["duration"]
	assert.False(t, hasDuration)

	buf.Reset()
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	LogOperation(nil, "ignored", slog.Duration("duration", time.Second))
}

func TestContextLogger(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
	l := Discard()
	assert.Same(t, l, FromContext(WithLogger(context.Background(), l)))
}
