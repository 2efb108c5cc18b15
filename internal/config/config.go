// Package config loads tracker configuration with precedence:
// defaults, then YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	API      APIConfig           `yaml:"api"`
	Database DatabaseConfig      `yaml:"database"`
	Sync     SyncConfig          `yaml:"sync"`
	Log      LogConfig           `yaml:"log"`
	Backup   BackupStorageConfig `yaml:"backup"`
	Suggest  SuggestConfig       `yaml:"suggest"`
}

// APIConfig locates the remote account service.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// DatabaseConfig contains local database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SyncConfig contains background sync settings.
type SyncConfig struct {
	Interval   Duration `yaml:"interval"`
	MaxRetries int      `yaml:"max_retries"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BackupStorageConfig contains S3-compatible backup settings.
// An empty bucket disables backups entirely.
type BackupStorageConfig struct {
	Bucket    string   `yaml:"bucket"`
	Endpoint  string   `yaml:"endpoint"`
	Region    string   `yaml:"region"`
	AccessKey string   `yaml:"-"` // env-only, never in YAML
	SecretKey string   `yaml:"-"` // env-only, never in YAML
	UseSSL    *bool    `yaml:"use_ssl"`
	URLExpiry Duration `yaml:"url_expiry"`
}

// SuggestConfig contains goal-suggestion settings.
type SuggestConfig struct {
	APIKey string `yaml:"-"` // env-only, never in YAML
	Model  string `yaml:"model"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("TRACKER_CONFIG_PATH", filepath.Join(homeDir(), ".tracker", "config.yaml"))

	// Missing file is not an error; defaults apply
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api/v1",
		},
		Database: DatabaseConfig{
			Path: filepath.Join(homeDir(), ".tracker", "tracker.db"),
		},
		Sync: SyncConfig{
			Interval:   Duration(5 * time.Minute),
			MaxRetries: 3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Backup: BackupStorageConfig{
			URLExpiry: Duration(1 * time.Hour),
		},
		Suggest: SuggestConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// API
	if v := os.Getenv("TRACKER_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	// Database
	if v := os.Getenv("TRACKER_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Sync
	if v := os.Getenv("TRACKER_SYNC_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sync.Interval = Duration(d)
		}
	}
	if v := os.Getenv("TRACKER_SYNC_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sync.MaxRetries = n
		}
	}

	// Log
	if v := os.Getenv("TRACKER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TRACKER_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Backup
	if v := os.Getenv("TRACKER_BACKUP_BUCKET"); v != "" {
		cfg.Backup.Bucket = v
	}
	if v := os.Getenv("TRACKER_S3_ENDPOINT"); v != "" {
		cfg.Backup.Endpoint = v
	}
	if v := os.Getenv("TRACKER_S3_REGION"); v != "" {
		cfg.Backup.Region = v
	}
	if v := os.Getenv("TRACKER_S3_ACCESS_KEY"); v != "" {
		cfg.Backup.AccessKey = v
	}
	if v := os.Getenv("TRACKER_S3_SECRET_KEY"); v != "" {
		cfg.Backup.SecretKey = v
	}
	if v := os.Getenv("TRACKER_S3_USE_SSL"); v != "" {
		useSSL := v == "true" || v == "1"
		cfg.Backup.UseSSL = &useSSL
	}
	if v := os.Getenv("TRACKER_S3_URL_EXPIRY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backup.URLExpiry = Duration(d)
		}
	}

	// Suggest (OPENAI_API_KEY is industry convention)
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Suggest.APIKey = v
	}
	if v := os.Getenv("TRACKER_SUGGEST_MODEL"); v != "" {
		cfg.Suggest.Model = v
	}
}

// validate checks that configuration values are usable.
func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must not be empty")
	}
	if time.Duration(c.Sync.Interval) <= 0 {
		return errors.New("sync.interval must be positive")
	}
	if c.Sync.MaxRetries < 0 {
		return errors.New("sync.max_retries must not be negative")
	}
	if c.Backup.Bucket != "" && c.Backup.Endpoint == "" {
		return errors.New("backup.endpoint is required when backup.bucket is set")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// homeDir returns the user home directory, falling back to the working
// directory when it cannot be determined.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "."
	}
	return home
}
