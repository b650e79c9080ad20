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

	"gitlab.com/dirk.krummacker/contact-manager/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	log, cleanup, err := New(config.Log{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("not written")
	log.Warn("contact store slow", zap.Int64("id", 42))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "contact store slow", entry["msg"])
	assert.Equal(t, 42.0, entry["id"])
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	log, cleanup, err := New(config.Log{Level: "chatty", Format: "console", Output: path})
	require.NoError(t, err)
	log.Debug("not written")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "could not parse logger level")
	assert.NotContains(t, string(data), "not written")
}

func TestParseLevel(t *testing.T) {
	level, ok := parseLevel("DEBUG")
	assert.True(t, ok)
	assert.Equal(t, zapcore.DebugLevel, level)

	level, ok = parseLevel("")
	assert.True(t, ok)
	assert.Equal(t, zapcore.InfoLevel, level)

	_, ok = parseLevel("verbose")
	assert.False(t, ok)
}

func TestNewUnwritableOutput(t *testing.T) {
	_, _, err := New(config.Log{Output: filepath.Join(t.TempDir(), "missing", "service.log")})
	assert.Error(t, err)
}
