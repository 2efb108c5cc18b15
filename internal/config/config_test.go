package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Helper to clear all config-related env vars
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"TRACKER_CONFIG_PATH",
		"TRACKER_API_BASE_URL",
		"TRACKER_DB_PATH",
		"TRACKER_SYNC_INTERVAL",
		"TRACKER_SYNC_MAX_RETRIES",
		"TRACKER_LOG_LEVEL",
		"TRACKER_LOG_FORMAT",
		"TRACKER_BACKUP_BUCKET",
		"TRACKER_S3_ENDPOINT",
		"TRACKER_S3_REGION",
		"TRACKER_S3_ACCESS_KEY",
		"TRACKER_S3_SECRET_KEY",
		"TRACKER_S3_USE_SSL",
		"TRACKER_S3_URL_EXPIRY",
		"OPENAI_API_KEY",
		"TRACKER_SUGGEST_MODEL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

// dur converts Duration to time.Duration for comparison
func dur(d Duration) time.Duration {
	return time.Duration(d)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	// Point at a missing file so a developer's real config cannot leak in
	os.Setenv("TRACKER_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("API.BaseURL = %q, want default", cfg.API.BaseURL)
	}
	if dur(cfg.Sync.Interval) != 5*time.Minute {
		t.Errorf("Sync.Interval = %v, want 5m", cfg.Sync.Interval)
	}
	if cfg.Sync.MaxRetries != 3 {
		t.Errorf("Sync.MaxRetries = %d, want 3", cfg.Sync.MaxRetries)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want info/json", cfg.Log)
	}
	if cfg.Backup.Bucket != "" {
		t.Errorf("Backup.Bucket = %q, want empty (backups disabled by default)", cfg.Backup.Bucket)
	}
	if cfg.Suggest.Model != "gpt-4o-mini" {
		t.Errorf("Suggest.Model = %q, want default model", cfg.Suggest.Model)
	}
}

func TestLoadFromFile_YAMLValues(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://api.example.com/api/v1
database:
  path: /tmp/tracker-test.db
sync:
  interval: 30s
  max_retries: 7
log:
  level: debug
backup:
  bucket: tracker-backups
  endpoint: s3.example.com
  region: eu-west-1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com/api/v1" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Database.Path != "/tmp/tracker-test.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if dur(cfg.Sync.Interval) != 30*time.Second {
		t.Errorf("Sync.Interval = %v, want 30s", cfg.Sync.Interval)
	}
	if cfg.Sync.MaxRetries != 7 {
		t.Errorf("Sync.MaxRetries = %d, want 7", cfg.Sync.MaxRetries)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Backup.Bucket != "tracker-backups" || cfg.Backup.Endpoint != "s3.example.com" {
		t.Errorf("Backup = %+v", cfg.Backup)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: https://yaml.example.com\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	os.Setenv("TRACKER_CONFIG_PATH", path)
	os.Setenv("TRACKER_API_BASE_URL", "https://env.example.com")
	os.Setenv("TRACKER_SYNC_INTERVAL", "90s")
	os.Setenv("TRACKER_S3_ACCESS_KEY", "ak")
	os.Setenv("TRACKER_S3_SECRET_KEY", "sk")
	defer clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("API.BaseURL = %q, env must override YAML", cfg.API.BaseURL)
	}
	if dur(cfg.Sync.Interval) != 90*time.Second {
		t.Errorf("Sync.Interval = %v, want 90s", cfg.Sync.Interval)
	}
	if cfg.Backup.AccessKey != "ak" || cfg.Backup.SecretKey != "sk" {
		t.Error("S3 credentials not taken from env")
	}
}

func TestValidate_BackupBucketRequiresEndpoint(t *testing.T) {
	clearEnv(t)
	os.Setenv("TRACKER_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	os.Setenv("TRACKER_BACKUP_BUCKET", "tracker-backups")
	defer clearEnv(t)

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error, want validation failure for bucket without endpoint")
	}
}

func TestValidate_RejectsNonPositiveInterval(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sync:\n  interval: 0s\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("LoadFromFile() = nil error, want validation failure for zero interval")
	}
}
