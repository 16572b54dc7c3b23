package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_OUTAGE_KEY", "secret-key")

	path := writeConfig(t, `
api:
  base_url: https://api.example.com/interview-tests-mock-api/v1
  api_key: ${TEST_OUTAGE_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.APIKey != "secret-key" {
		t.Errorf("Expected api key secret-key, got %s", cfg.API.APIKey)
	}
	if cfg.API.BaseURL != "https://api.example.com/interview-tests-mock-api/v1" {
		t.Errorf("Unexpected base url %s", cfg.API.BaseURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://localhost:9000
retry:
  max_attempts: 5
  initial_delay: 250ms
sync:
  interval: 1m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.InitialDelay != 250*time.Millisecond {
		t.Errorf("Unexpected retry config: %+v", cfg.Retry)
	}
	if cfg.Retry.BackoffMultiple != 2 || cfg.Retry.MaxDelay != 10*time.Second {
		t.Errorf("Expected retry defaults to fill gaps, got %+v", cfg.Retry)
	}
	if cfg.Sync.Interval != time.Minute {
		t.Errorf("Expected interval 1m, got %v", cfg.Sync.Interval)
	}
	if cfg.Sync.SiteID != DefaultSiteID || cfg.Sync.Cutoff != DefaultCutoff {
		t.Errorf("Unexpected sync defaults: %+v", cfg.Sync)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("API_URL", "http://env.example.com")
	t.Setenv("API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "http://env.example.com" || cfg.API.APIKey != "env-key" {
		t.Errorf("Expected API settings from environment, got %+v", cfg.API)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestValidate_RequiresBaseURL(t *testing.T) {
	t.Setenv("API_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error without base url")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [unterminated")

	if _, err := Load(path); err == nil {
		t.Error("Expected parse error")
	}
}
