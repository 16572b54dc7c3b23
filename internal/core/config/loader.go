package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/outagesync/internal/infra/retry"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultSiteID = "norwich-pear-tree"
	DefaultCutoff = "2022-01-01T00:00:00.000Z"
)

// Load reads configuration from a YAML file. A missing file is not an error:
// defaults and the API_URL / API_KEY environment variables are used instead.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = os.Getenv("API_URL")
	}
	if cfg.API.APIKey == "" {
		cfg.API.APIKey = os.Getenv("API_KEY")
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30 * time.Second
	}

	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = retry.DefaultConfig.MaxAttempts
	}
	if cfg.Retry.InitialDelay == 0 {
		cfg.Retry.InitialDelay = retry.DefaultConfig.InitialDelay
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = retry.DefaultConfig.MaxDelay
	}
	if cfg.Retry.BackoffMultiple == 0 {
		cfg.Retry.BackoffMultiple = retry.DefaultConfig.BackoffMultiple
	}

	if cfg.Sync.SiteID == "" {
		cfg.Sync.SiteID = DefaultSiteID
	}
	if cfg.Sync.Cutoff == "" {
		cfg.Sync.Cutoff = DefaultCutoff
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = 15 * time.Minute
	}

	if cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = 5 * time.Minute
	}
}

// Validate checks the settings every command needs.
func (c *AppConfig) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base url is not set (api.base_url or API_URL)")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
