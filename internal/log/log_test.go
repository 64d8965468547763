package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextAttrsAreAdded(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: "info", Format: "json"}, false)

	ctx := ContextAttrs(context.Background(), slog.String("cmd", "compile"))
	logger.InfoContext(ctx, "category compiled", "category", "ads")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "compile", record["cmd"])
	require.Equal(t, "ads", record["category"])
	require.Equal(t, "category compiled", record["msg"])
}

func TestContextAttrsSurviveWith(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: "info", Format: "json"}, false).With("component", "pipeline")

	ctx := ContextAttrs(context.Background(), slog.Int("pid", 42))
	logger.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "pipeline", record["component"])
	require.EqualValues(t, 42, record["pid"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Format: "text"}, false)
	logger.Info("hidden")
	require.Zero(t, buf.Len(), "default level should hide info records")

	logger.Warn("shown")
	require.Contains(t, buf.String(), "msg=shown")

	buf.Reset()
	verbose := New(&buf, Config{Level: "error", Format: "text"}, true)
	verbose.Debug("debug shown")
	require.Contains(t, buf.String(), "debug shown")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SINGER_LOG_LEVEL", "debug")
	t.Setenv("SINGER_LOG_FORMAT", "json")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, Config{Level: "debug", Format: "json"}, cfg)
}

func TestAutoFormatUsesJSONForBuffers(t *testing.T) {
	require.False(t, useText(&bytes.Buffer{}, "auto"))
	require.True(t, useText(&bytes.Buffer{}, "text"))
}
