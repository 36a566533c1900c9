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

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"TRACE":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"Warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNew_writesJSONToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "commayte.log")
	log, cleanup := New(Options{Level: "info", Path: path})
	log.Debug("hidden")
	log.Info("commit created", zap.String("message", "feat: add thing"))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug entries are below the configured level")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "commit created", rec["msg"])
	assert.Equal(t, "feat: add thing", rec["message"])
}

func TestNew_disabledFileAndQuietIsNop(t *testing.T) {
	t.Parallel()
	log, cleanup := New(Options{Path: "-"})
	defer cleanup()
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_unwritablePathFallsBack(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	// Parent of the log path is a regular file, so the directory cannot be created.
	log, cleanup := New(Options{Path: filepath.Join(blocker, "sub", "x.log"), Verbose: true})
	defer cleanup()
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel), "console core remains in verbose mode")
}

func TestOrNop(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
