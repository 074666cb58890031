package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "info", "json")

	l.Info("gatekeeper ready", slog.String("policy", "default-open"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gatekeeper ready", entry["msg"])
	assert.Equal(t, "default-open", entry["policy"])
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "info", "text")

	l.Info("cart updated", "items", 2)

	assert.Contains(t, buf.String(), "msg=\"cart updated\"")
	assert.Contains(t, buf.String(), "items=2")
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "warn", "text")

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase", "DEBUG", slog.LevelDebug},
		{"padded", " error ", slog.LevelError},
		{"unknown", "unknown", slog.LevelInfo},
		{"empty", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestFromContext(t *testing.T) {
	saved := logger
	defer func() { logger = saved }()

	var buf bytes.Buffer
	logger = NewLogger(&buf, "info", "json")

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithUserID(ctx, "user-456")
	FromContext(ctx).Info("order fetched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "user-456", entry["user_id"])
}

func TestFromContext_EmptyValuesIgnored(t *testing.T) {
	saved := logger
	defer func() { logger = saved }()

	var buf bytes.Buffer
	logger = NewLogger(&buf, "info", "json")

	ctx := WithRequestID(context.Background(), "")
	FromContext(ctx).Info("no ids")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, hasRequestID := entry["request_id"]
	assert.False(t, hasRequestID)
}

func TestFromContext_Fallback(t *testing.T) {
	saved := logger
	defer func() { logger = saved }()
	logger = nil

	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestWithRequestID_Overwrites(t *testing.T) {
	ctx := WithRequestID(context.Background(), "old-id")
	ctx = WithRequestID(ctx, "new-id")
	ctx = WithUserID(ctx, "user-1")

	assert.Equal(t, "new-id", ctx.Value(requestIDKey))
	assert.Equal(t, "user-1", ctx.Value(userIDKey))
}

func TestErr(t *testing.T) {
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, "", Err(nil).Value.String())
}
