package config

import (
	"time"

	"github.com/vietddude/outagesync/internal/infra/api"
	redisclient "github.com/vietddude/outagesync/internal/infra/redis"
	"github.com/vietddude/outagesync/internal/infra/retry"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server  ServerConfig       `yaml:"server"`
	API     api.Config         `yaml:"api"`
	Retry   retry.Config       `yaml:"retry"`
	Sync    SyncConfig         `yaml:"sync"`
	Redis   redisclient.Config `yaml:"redis"`
	Logging LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SyncConfig holds the default run parameters.
type SyncConfig struct {
	SiteID   string        `yaml:"site_id"`
	Cutoff   string        `yaml:"cutoff"`   // ISO-8601
	Interval time.Duration `yaml:"interval"` // watch mode only
}
