package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, Config{Level: in}.LogLevel(), in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Level = "debug"

	l := New(cfg, &buf)
	l.Debug("hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "forkify", entry["service"])
	assert.Equal(t, "v", entry["k"])
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "warn"

	l := New(cfg, &buf)
	l.Info("quiet")
	assert.Empty(t, buf.String())
	l.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	ctx := WithLogger(context.Background(), New(cfg, &buf))
	ctx = WithRequestID(ctx, "req-1")

	id, ok := RequestIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "req-1", id)

	FromContext(ctx).Info("traced")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	_, ok = RequestIDFromContext(context.Background())
	assert.False(t, ok)
	assert.NotNil(t, FromContext(context.Background()))
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
