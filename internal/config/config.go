// Package config loads client settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvConfig       = "WEBNOTES_CONFIG"
	EnvDBPath       = "WEBNOTES_DB_PATH"
	EnvAPIURL       = "WEBNOTES_API_URL"
	EnvSessionToken = "WEBNOTES_SESSION_TOKEN"
	EnvLogLevel     = "WEBNOTES_LOG_LEVEL"
	EnvOffline      = "WEBNOTES_OFFLINE"
)

// Backoff schedules accepted in retry.backoff.
const (
	BackoffNone        = "none"
	BackoffConstant    = "constant"
	BackoffExponential = "exponential"
)

type Config struct {
	DBPath       string          `yaml:"db_path"`
	LogLevel     string          `yaml:"log_level"`
	LogFormat    string          `yaml:"log_format"`
	Offline      bool            `yaml:"offline"`
	WelcomeNotes bool            `yaml:"welcome_notes"`
	Remote       RemoteConfig    `yaml:"remote"`
	Retry        RetryConfig     `yaml:"retry"`
	Netwatch     NetwatchConfig  `yaml:"netwatch"`
	Migration    MigrationConfig `yaml:"migration"`
}

type RemoteConfig struct {
	APIURL        string        `yaml:"api_url"`
	SessionToken  string        `yaml:"session_token"`
	SessionCookie string        `yaml:"session_cookie"`
	Timeout       time.Duration `yaml:"timeout"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Backoff  string        `yaml:"backoff"`
	Delay    time.Duration `yaml:"delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
}

type NetwatchConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type MigrationConfig struct {
	Dedupe bool `yaml:"dedupe"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		DBPath:       defaultDBPath(),
		LogLevel:     "info",
		LogFormat:    "text",
		WelcomeNotes: true,
		Remote: RemoteConfig{
			APIURL:  "http://localhost:3000/api",
			Timeout: 10 * time.Second,
		},
		Retry: RetryConfig{
			Attempts: 1,
			Backoff:  BackoffNone,
			Delay:    200 * time.Millisecond,
			MaxDelay: 2 * time.Second,
		},
		Netwatch: NetwatchConfig{
			Interval: 30 * time.Second,
			Timeout:  5 * time.Second,
		},
	}
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "webnotes.db"
	}
	return filepath.Join(dir, "webnotes", "webnotes.db")
}

// Path returns the config file location: $WEBNOTES_CONFIG, else
// webnotes/config.yaml under the user config directory.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("find user config dir: %w", err)
	}
	return filepath.Join(dir, "webnotes", "config.yaml"), nil
}

// Load reads the file at path, or the default location when path is empty,
// then applies environment overrides. A missing file at the default
// location is not an error; an explicitly named one must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != "" || os.Getenv(EnvConfig) != ""
	if path == "" {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.Remote.APIURL = v
	}
	if v := os.Getenv(EnvSessionToken); v != "" {
		c.Remote.SessionToken = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvOffline); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvOffline, err)
		}
		c.Offline = on
	}
	return nil
}

// Validate checks values the rest of the client relies on.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry.attempts must be at least 1, got %d", c.Retry.Attempts)
	}
	switch c.Retry.Backoff {
	case BackoffNone:
	case BackoffConstant, BackoffExponential:
		if c.Retry.Delay <= 0 {
			return fmt.Errorf("retry.delay must be positive for %s backoff", c.Retry.Backoff)
		}
		if c.Retry.Backoff == BackoffExponential && c.Retry.MaxDelay < c.Retry.Delay {
			return errors.New("retry.max_delay must not be below retry.delay")
		}
	default:
		return fmt.Errorf("unknown retry.backoff %q", c.Retry.Backoff)
	}
	if c.Netwatch.Interval <= 0 {
		return errors.New("netwatch.interval must be positive")
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
