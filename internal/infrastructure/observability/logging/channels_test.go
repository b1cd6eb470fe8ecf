package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T) (*ChanneledLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Writer = &buf
	logger, err := NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger, &buf
}

func TestChannelAttribute(t *testing.T) {
	logger, buf := newBufferLogger(t)

	logger.CMS().Info("Query completed", "operation", "HomeHero")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cms", entry["channel"])
	assert.Equal(t, "HomeHero", entry["operation"])
}

func TestSetChannelLevel(t *testing.T) {
	logger, buf := newBufferLogger(t)

	logger.Widget().Debug("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, logger.SetChannelLevel(ChannelWidget, slog.LevelDebug))
	buf.Reset()
	logger.Widget().Debug("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Equal(t, "DEBUG", logger.GetChannelLevels()["widget"])

	assert.Error(t, logger.SetChannelLevel(Channel("nope"), slog.LevelDebug))
}

func TestUnknownChannelFallsBackToSystem(t *testing.T) {
	logger, buf := newBufferLogger(t)
	logger.GetChannel(Channel("missing")).Info("hello")
	assert.True(t, strings.Contains(buf.String(), `"channel":"system"`))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j****@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "****", MaskEmail("not-an-email"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestWithOperation(t *testing.T) {
	logger, buf := newBufferLogger(t)

	logger.WithOperation(ChannelCMS, "GetProjects").Warn("Slow CMS query")

	entry := decodeEntry(t, buf)
	assert.Equal(t, "cms", entry["channel"])
	assert.Equal(t, "GetProjects", entry["operation"])
	assert.Equal(t, "WARN", entry["level"])
}

func TestLogError(t *testing.T) {
	logger, buf := newBufferLogger(t)

	logger.LogError(ChannelContact, "contact_email", errors.New("resend: 422"), map[string]any{"id": "01J"})

	entry := decodeEntry(t, buf)
	assert.Equal(t, "contact", entry["channel"])
	assert.Equal(t, "contact_email", entry["operation"])
	assert.Equal(t, "resend: 422", entry["error"])
	assert.Equal(t, "01J", entry["id"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestLogStartupPhase(t *testing.T) {
	logger, buf := newBufferLogger(t)

	logger.LogStartupPhase("cache_warm", 3*time.Millisecond, true, map[string]any{"entries": 7})
	entry := decodeEntry(t, buf)
	assert.Equal(t, "startup", entry["channel"])
	assert.Equal(t, "cache_warm", entry["phase"])
	assert.Equal(t, true, entry["success"])
	assert.Equal(t, float64(7), entry["entries"])
	assert.Equal(t, "Startup phase completed", entry["msg"])

	buf.Reset()
	logger.LogStartupPhase("ledger", time.Millisecond, false, nil)
	entry = decodeEntry(t, buf)
	assert.Equal(t, false, entry["success"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "Startup phase failed", entry["msg"])
}
