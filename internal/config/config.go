// Package config loads tagboard settings. Values are layered: built-in
// defaults, then an optional YAML file, then TAGBOARD_* environment
// variables. The CLI applies its flags on top of the result.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is where the task backend listens unless told otherwise.
const DefaultAPIURL = "http://localhost:3010"

// Config holds runtime settings for the client.
type Config struct {
	// Env is "development" or "production". Development logs text at debug.
	Env string `yaml:"env"`

	// APIURL is the base URL of the tasks/tags backend.
	APIURL string `yaml:"api_url"`

	// DataDir holds the local sqlite store and the log file.
	DataDir string `yaml:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// RequestTimeout bounds every backend request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Env:            "development",
		APIURL:         DefaultAPIURL,
		DataDir:        defaultDataDir(),
		LogLevel:       "debug",
		RequestTimeout: 10 * time.Second,
	}
}

// Load builds the configuration from defaults, the YAML file at path (a
// missing file is fine) and the environment. An empty path uses DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/tagboard/config.yaml, falling back to
// ~/.config. Returns "" when no home directory can be found.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tagboard", "config.yaml")
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fileCfg.Env != "" {
		cfg.Env = fileCfg.Env
	}
	if fileCfg.APIURL != "" {
		cfg.APIURL = fileCfg.APIURL
	}
	if fileCfg.DataDir != "" {
		cfg.DataDir = fileCfg.DataDir
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.RequestTimeout > 0 {
		cfg.RequestTimeout = fileCfg.RequestTimeout
	}
	return nil
}

// FromEnv overlays TAGBOARD_* environment variables on base.
func FromEnv(base Config) Config {
	cfg := base
	cfg.Env = getEnv("TAGBOARD_ENV", cfg.Env)
	cfg.APIURL = getEnv("TAGBOARD_API_URL", cfg.APIURL)
	cfg.DataDir = getEnv("TAGBOARD_DATA_DIR", cfg.DataDir)
	cfg.LogLevel = getEnv("TAGBOARD_LOG_LEVEL", cfg.LogLevel)
	cfg.RequestTimeout = getEnvDuration("TAGBOARD_REQUEST_TIMEOUT", cfg.RequestTimeout)
	return cfg
}

// Validate checks the fields other packages rely on.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url %q", c.APIURL)
	}
	if c.DataDir == "" {
		return errors.New("data dir is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// SlogLevel maps LogLevel onto slog. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// defaultDataDir mirrors the XDG data layout used for the sqlite store.
func defaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "tagboard")
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "tagboard")
}

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g. "5s") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(val)); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
