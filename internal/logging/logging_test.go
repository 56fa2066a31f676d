package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_WritesMessageAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false))

	logger.Info("skill normalized", "skill", "py", "similarity", 0.91)

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "skill normalized")
	assert.Contains(t, out, `skill="py"`)
	assert.Contains(t, out, "similarity=0.91")
	assert.NotContains(t, out, "\033[", "colors disabled")
}

func TestHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false))

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestHandler_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil, false))

	ctx := WithRequestID(context.Background(), "req-42")
	logger.InfoContext(ctx, "handled")

	assert.Contains(t, buf.String(), "[req-42] handled")
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil, false)).
		With("component", "matcher").
		WithGroup("embed")

	logger.Info("batch", "size", 12)

	out := buf.String()
	assert.Contains(t, out, ` component="matcher"`)
	assert.Contains(t, out, "embed.size=12")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestRequestID_Missing(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
