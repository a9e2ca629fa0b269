package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// isolate points HOME and XDG_CONFIG_HOME at a fresh directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	return home
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPath, cfg.DefaultPath)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultExclusions, cfg.Exclude)
	assert.Equal(t, []string{"/proc", "/sys", "/dev"}, cfg.Exclude)
	assert.Equal(t, DefaultAlgorithm, cfg.Hash.Algorithm)
	assert.Equal(t, DefaultBatchSize, cfg.Hash.BatchSize)
	assert.False(t, cfg.Clean.Trash)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultCachePath(), cfg.Cache.Path)
	assert.True(t, cfg.Manifest.Enabled)
	assert.Equal(t, DefaultManifestPath(), cfg.Manifest.Path)
	assert.Equal(t, DefaultRetentionDays, cfg.Manifest.RetentionDays)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DefaultLogPath(), cfg.Logging.Path)
	assert.Equal(t, "warn", cfg.Logging.Components["cache"])

	batch, err := cfg.BatchSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, types.MiB, batch)
}

func TestLoad_FromFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".config", "dupsweep"), `
default_path: /srv/media
output: json
exclude:
  - node_modules
hash:
  algorithm: sha256
  batch_size: 64K
clean:
  trash: true
cache:
  enabled: false
  path: ~/digests
manifest:
  retention_days: 7
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/media", cfg.DefaultPath)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, []string{"node_modules"}, cfg.Exclude)
	assert.Equal(t, "sha256", cfg.Hash.Algorithm)
	assert.True(t, cfg.Clean.Trash)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(home, "digests"), cfg.Cache.Path)
	assert.Equal(t, 7, cfg.Manifest.RetentionDays)
	assert.True(t, cfg.Manifest.Enabled, "unset keys keep defaults")

	batch, err := cfg.BatchSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, 64*types.KiB, batch)
}

func TestLoad_XDGConfigHomeWins(t *testing.T) {
	home := isolate(t)
	xdgHome := filepath.Join(home, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdgHome)

	writeConfig(t, filepath.Join(home, ".config", "dupsweep"), "output: yaml\n")
	writeConfig(t, filepath.Join(xdgHome, "dupsweep"), "output: pretty\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pretty", cfg.Output)
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "hash:\n  algorithm: xxhash\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xxhash", cfg.Hash.Algorithm)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestLoad_InvalidYAML(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".config", "dupsweep"), "output: [unclosed\n")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("DUPSWEEP_HASH_ALGORITHM", "sha256")
	t.Setenv("DUPSWEEP_OUTPUT", "paths")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sha256", cfg.Hash.Algorithm)
	assert.Equal(t, "paths", cfg.Output)
}

func TestBatchSizeBytes_Invalid(t *testing.T) {
	for _, v := range []string{"lots", "0", "-1M"} {
		cfg := &Config{Hash: HashConfig{BatchSize: v}}
		_, err := cfg.BatchSizeBytes()
		assert.Error(t, err, "batch size %q", v)
	}
}

func TestLoggingConfig(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{
		Level:        "debug",
		Path:         "/tmp/dupsweep.log",
		ConsoleLevel: "warn",
		Rotation:     RotationConfig{MaxSize: "2MB", MaxAge: 3, MaxBackups: 2, Daily: true},
		Components:   map[string]string{"scanner": "error"},
	}}

	lc, err := cfg.LoggingConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "/tmp/dupsweep.log", lc.Path)
	assert.Equal(t, "warn", lc.ConsoleLevel)
	assert.Equal(t, 2*types.MiB, lc.Rotation.MaxSize)
	assert.Equal(t, 3, lc.Rotation.MaxAge)
	assert.Equal(t, 2, lc.Rotation.MaxBackups)
	assert.True(t, lc.Rotation.Daily)
	assert.Equal(t, "error", lc.Components["scanner"])

	cfg.Logging.Rotation.MaxSize = "huge"
	_, err = cfg.LoggingConfig()
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	home := isolate(t)

	path, err := WriteDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "dupsweep", "config.yaml"), path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAlgorithm, cfg.Hash.Algorithm)
	assert.Equal(t, DefaultExclusions, cfg.Exclude)
	assert.Equal(t, DefaultManifestPath(), cfg.Manifest.Path)

	// An existing file is left untouched.
	require.NoError(t, os.WriteFile(path, []byte("output: json\n"), 0o644))
	again, err := WriteDefault()
	require.NoError(t, err)
	assert.Equal(t, path, again)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "output: json\n", string(data))
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)

	got, err := ExpandPath("~/x/y")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y"), got)

	got, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestDefaultPaths(t *testing.T) {
	assert.Equal(t, "digests", filepath.Base(DefaultCachePath()))
	assert.Equal(t, "manifests", filepath.Base(DefaultManifestPath()))
	assert.Equal(t, "dupsweep.log", filepath.Base(DefaultLogPath()))
}
