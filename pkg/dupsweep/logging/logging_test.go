package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests share the package-global logging state and must not run in parallel.

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"INFO", logging.LevelInfo, false},
		{"", logging.LevelInfo, false},
		{"warning", logging.LevelWarn, false},
		{"warn", logging.LevelWarn, false},
		{"error", logging.LevelError, false},
		{"verbose", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, logging.ErrInvalidLevel, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, strings.ToLower(got.String()), got.String())
	}
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dupsweep.log")

	require.NoError(t, logging.Init(logging.Config{Level: "debug", Path: path}))
	t.Cleanup(func() { _ = logging.Close() })

	logger := logging.Get("scanner")
	logger.Info("scan started", "root", "/data")
	logger.Debug("entry skipped", "path", "/data/link")

	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "scan started")
	assert.Contains(t, content, "root=/data")
	assert.Contains(t, content, "entry skipped")
	assert.Contains(t, content, "scanner")
}

func TestInit_ComponentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupsweep.log")

	require.NoError(t, logging.Init(logging.Config{
		Level:      "info",
		Path:       path,
		Components: map[string]string{"cleaner": "error"},
	}))
	t.Cleanup(func() { _ = logging.Close() })

	logging.Get("cleaner").Info("should be filtered")
	logging.Get("cleaner").Error("kept error")
	logging.Get("other").Info("kept info")
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.NotContains(t, content, "should be filtered")
	assert.Contains(t, content, "kept error")
	assert.Contains(t, content, "kept info")
}

func TestInit_InvalidLevels(t *testing.T) {
	dir := t.TempDir()

	err := logging.Init(logging.Config{Level: "loud", Path: filepath.Join(dir, "a.log")})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)

	err = logging.Init(logging.Config{
		Level:      "info",
		Path:       filepath.Join(dir, "b.log"),
		Components: map[string]string{"scanner": "nope"},
	})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)

	err = logging.Init(logging.Config{Level: "info", Path: filepath.Join(dir, "c.log"), ConsoleLevel: "nope"})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)
}

func TestLoggerObtainedBeforeInit(t *testing.T) {
	early := logging.Get("early-component")
	early.Info("dropped before init")

	path := filepath.Join(t.TempDir(), "dupsweep.log")
	require.NoError(t, logging.Init(logging.Config{Level: "info", Path: path}))
	t.Cleanup(func() { _ = logging.Close() })

	early.Info("written after init")
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped before init")
	assert.Contains(t, string(data), "written after init")
}

func TestConsoleMirror(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "dupsweep.log")

	require.NoError(t, logging.Init(logging.Config{
		Level:        "debug",
		Path:         path,
		ConsoleLevel: "warn",
		Console:      &console,
	}))
	t.Cleanup(func() { _ = logging.Close() })

	logger := logging.Get("cli")
	logger.Info("file only")
	logger.Warn("both places")

	assert.NotContains(t, console.String(), "file only")
	assert.Contains(t, console.String(), "both places")
}

func TestClose_NotInitialized(t *testing.T) {
	require.NoError(t, logging.Close())
	require.NoError(t, logging.Close())
}
