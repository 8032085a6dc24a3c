package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToConfiguredWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Info("session cache ready", "cached_chapters", 2)

	out := buf.String()
	assert.Contains(t, out, "session cache ready")
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"cached_chapters":2`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	// Production defaults to JSON, anything else to the pretty handler.
	var prod bytes.Buffer
	New(Config{Environment: "production", Writer: &prod}).Info("boot")
	assert.Contains(t, prod.String(), `"msg":"boot"`)

	var dev bytes.Buffer
	New(Config{Environment: "development", Writer: &dev}).Info("boot")
	assert.NotContains(t, dev.String(), `"msg"`)
	assert.Contains(t, dev.String(), "boot")
}

func TestNew_ExplicitFormatWins(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Format: "json", Environment: "development", Writer: &buf}).Info("boot")
	assert.Contains(t, buf.String(), `"msg":"boot"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	level := slog.LevelWarn
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: level})

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	// Nil level option falls back to info.
	h = NewPrettyHandler(&bytes.Buffer{}, nil)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))

	log.Warn("fetch blocked by storage limit", "key", "John.3")

	out := buf.String()
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "fetch blocked by storage limit")
	assert.Contains(t, out, "key=John.3")
	require.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_LevelTags(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Debug("a")
	log.Info("b")
	log.Warn("c")
	log.Error("d")

	out := buf.String()
	for _, tag := range []string{"DBG", "INF", "WRN", "ERR"} {
		assert.Contains(t, out, tag)
	}
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewPrettyHandler(&buf, nil))

	// Attributes bound with With must appear on every record.
	log := base.With("version", "NLT")
	log.Info("chapter stored", "verses", 21)

	out := buf.String()
	assert.Contains(t, out, "version=NLT")
	assert.Contains(t, out, "verses=21")
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, nil)

	// Empty group name is a no-op.
	assert.Same(t, slog.Handler(h), h.WithGroup(""))
	assert.NotSame(t, slog.Handler(h), h.WithGroup("store"))
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelWarn, Format: "json", Writer: &buf})

	log.Debug("quiet")
	log.Info("quiet")
	log.Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}
