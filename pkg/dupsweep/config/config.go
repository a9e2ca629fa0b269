package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/logging"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level        string            `mapstructure:"level"`
	Path         string            `mapstructure:"path"`
	ConsoleLevel string            `mapstructure:"console_level"`
	Rotation     RotationConfig    `mapstructure:"rotation"`
	Components   map[string]string `mapstructure:"components"`
}

// HashConfig selects how file content is digested.
type HashConfig struct {
	Algorithm string `mapstructure:"algorithm"`
	BatchSize string `mapstructure:"batch_size"`
}

// CleanConfig configures interactive cleaning.
type CleanConfig struct {
	Trash bool `mapstructure:"trash"`
}

// CacheConfig configures the persistent digest cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ManifestConfig configures the run history.
type ManifestConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	DefaultPath string         `mapstructure:"default_path"`
	Output      string         `mapstructure:"output"`
	Exclude     []string       `mapstructure:"exclude"`
	Hash        HashConfig     `mapstructure:"hash"`
	Clean       CleanConfig    `mapstructure:"clean"`
	Cache       CacheConfig    `mapstructure:"cache"`
	Manifest    ManifestConfig `mapstructure:"manifest"`
	Logging     LoggingConfig  `mapstructure:"logging"`
}

// NewViper returns a viper instance with defaults, environment binding and
// the config file loaded. configFile overrides the search path when set.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/dupsweep/config.yaml
//   - $HOME/.config/dupsweep/config.yaml
//
// Environment variables are prefixed with DUPSWEEP_ (e.g., DUPSWEEP_HASH_ALGORITHM).
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, appName))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", appName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("exclude", DefaultExclusions)
	v.SetDefault("hash.algorithm", DefaultAlgorithm)
	v.SetDefault("hash.batch_size", DefaultBatchSize)
	v.SetDefault("clean.trash", false)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "") // Empty means use DefaultCachePath
	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.path", "") // Empty means use DefaultManifestPath
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.console_level", "")
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", defaultComponents)
}

// Decode unmarshals v into a Config and resolves paths.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.Cache.Path, err = resolvePath(cfg.Cache.Path, DefaultCachePath()); err != nil {
		return nil, err
	}
	if cfg.Manifest.Path, err = resolvePath(cfg.Manifest.Path, DefaultManifestPath()); err != nil {
		return nil, err
	}
	if cfg.Logging.Path, err = resolvePath(cfg.Logging.Path, DefaultLogPath()); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Load loads configuration from file and environment variables.
func Load(configFile string) (*Config, error) {
	v, err := NewViper(configFile)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

func resolvePath(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	return ExpandPath(path)
}

// BatchSizeBytes returns the configured hash batch size in bytes.
func (c *Config) BatchSizeBytes() (int64, error) {
	n, err := types.ParseSize(c.Hash.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("hash.batch_size: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("hash.batch_size: %w: must be positive", types.ErrInvalidSize)
	}
	return n, nil
}

// LoggingConfig converts the logging section to a logging.Config.
func (c *Config) LoggingConfig() (logging.Config, error) {
	rotation := logging.DefaultRotationConfig()
	if c.Logging.Rotation.MaxSize != "" {
		maxSize, err := types.ParseSize(c.Logging.Rotation.MaxSize)
		if err != nil {
			return logging.Config{}, fmt.Errorf("logging.rotation.max_size: %w", err)
		}
		rotation.MaxSize = maxSize
	}
	rotation.MaxAge = c.Logging.Rotation.MaxAge
	rotation.MaxBackups = c.Logging.Rotation.MaxBackups
	rotation.Daily = c.Logging.Rotation.Daily

	return logging.Config{
		Level:        c.Logging.Level,
		Path:         c.Logging.Path,
		Rotation:     rotation,
		Components:   c.Logging.Components,
		ConsoleLevel: c.Logging.ConsoleLevel,
	}, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", appName), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// WriteDefault writes a default config file if none exists and returns its
// path. An existing file is left untouched.
func WriteDefault() (string, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# dupsweep configuration

# Default path to scan when none is specified
default_path: %s

# Report format: plain, pretty, json, yaml, paths
output: %s

# Entries to leave out of scans (name globs, full-path globs or path prefixes).
# Excluded entries are not counted. Add names such as .git or node_modules here.
exclude:
  - /proc
  - /sys
  - /dev

hash:
  # Digest algorithm: md5, sha256, xxhash
  algorithm: %s
  # Read size per chunk
  batch_size: %s

clean:
  # Move removed duplicates to the system trash instead of deleting them
  trash: false

# Digest cache so unchanged files are not rehashed
cache:
  enabled: true
  # Empty means use default: $XDG_CACHE_HOME/dupsweep/digests
  path: ""

# Run history
manifest:
  enabled: true
  # Empty means use default: $XDG_DATA_HOME/dupsweep/manifests
  path: ""
  retention_days: %d

logging:
  # Log level: debug, info, warn, error
  level: info
  # Empty means use default: $XDG_STATE_HOME/dupsweep/dupsweep.log
  path: ""
  # Mirror records at or above this level to stderr (empty disables)
  console_level: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  components:
    scanner: info
    cleaner: info
    cache: warn
`, DefaultPath, DefaultOutput, DefaultAlgorithm, DefaultBatchSize, DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}

	return configPath, nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DefaultCachePath returns $XDG_CACHE_HOME/dupsweep/digests.
func DefaultCachePath() string {
	return filepath.Join(xdg.CacheHome, appName, "digests")
}

// DefaultManifestPath returns $XDG_DATA_HOME/dupsweep/manifests.
func DefaultManifestPath() string {
	return filepath.Join(xdg.DataHome, appName, "manifests")
}

// DefaultLogPath returns $XDG_STATE_HOME/dupsweep/dupsweep.log.
func DefaultLogPath() string {
	return logging.DefaultLogPath()
}
