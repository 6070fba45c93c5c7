package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration.
type Config struct {
	Sandbox SandboxConfig
	Cache   CacheConfig
	Storage StorageConfig
	Remote  RemoteConfig
	Logging LogConfig
}

// SandboxConfig holds sandbox boundary configuration.
type SandboxConfig struct {
	Root string `envconfig:"SANDBOX_ROOT" default:"/tmp/agentfs"`
}

// CacheConfig holds read cache configuration.
type CacheConfig struct {
	MaxEntries int   `envconfig:"CACHE_MAX_ENTRIES" default:"256"`
	MaxBytes   int64 `envconfig:"CACHE_MAX_BYTES" default:"67108864"`
	TTLSeconds int   `envconfig:"CACHE_TTL_SECONDS" default:"3600"`
}

// TTL returns the entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// StorageConfig holds local backend configuration.
type StorageConfig struct {
	Workers int `envconfig:"STORAGE_WORKERS" default:"4"`
}

// RemoteConfig holds read-only mirror configuration. The mirror is disabled
// when Endpoint is empty.
type RemoteConfig struct {
	Endpoint          string  `envconfig:"REMOTE_ENDPOINT" default:""`
	Root              string  `envconfig:"REMOTE_ROOT" default:""`
	RequestsPerSecond float64 `envconfig:"REMOTE_RPS" default:"0"`
	TimeoutSeconds    int     `envconfig:"REMOTE_TIMEOUT_SECONDS" default:"30"`
}

// Timeout returns the per-request timeout as a duration.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from AGENTFS_-prefixed environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("agentfs", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Sandbox: SandboxConfig{
			Root: "/tmp/agentfs",
		},
		Cache: CacheConfig{
			MaxEntries: 256,
			MaxBytes:   64 * 1024 * 1024,
			TTLSeconds: 3600,
		},
		Storage: StorageConfig{
			Workers: 4,
		},
		Remote: RemoteConfig{
			TimeoutSeconds: 30,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if !filepath.IsAbs(c.Sandbox.Root) {
		return fmt.Errorf("sandbox root must be an absolute path, got %q", c.Sandbox.Root)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.MaxBytes <= 0 {
		return fmt.Errorf("cache max bytes must be positive, got %d", c.Cache.MaxBytes)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %d", c.Cache.TTLSeconds)
	}
	if c.Storage.Workers < 1 {
		return fmt.Errorf("storage workers must be at least 1, got %d", c.Storage.Workers)
	}
	if c.Remote.RequestsPerSecond < 0 {
		return fmt.Errorf("remote rps must not be negative, got %g", c.Remote.RequestsPerSecond)
	}
	if c.Remote.TimeoutSeconds <= 0 {
		return fmt.Errorf("remote timeout must be positive, got %d", c.Remote.TimeoutSeconds)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
