package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 256, cfg.Cache.MaxEntries)
	assert.Equal(t, int64(64*1024*1024), cfg.Cache.MaxBytes)
	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
	assert.Equal(t, 4, cfg.Storage.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AGENTFS_SANDBOX_ROOT", "/srv/agent")
	t.Setenv("AGENTFS_CACHE_MAX_ENTRIES", "8")
	t.Setenv("AGENTFS_STORAGE_WORKERS", "2")
	t.Setenv("AGENTFS_LOG_LEVEL", "debug")
	t.Setenv("AGENTFS_LOG_DEV", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/agent", cfg.Sandbox.Root)
	assert.Equal(t, 8, cfg.Cache.MaxEntries)
	assert.Equal(t, 2, cfg.Storage.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	// Untouched knobs keep their defaults.
	assert.Equal(t, int64(64*1024*1024), cfg.Cache.MaxBytes)
	assert.Equal(t, 30, cfg.Remote.TimeoutSeconds)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("AGENTFS_CACHE_MAX_ENTRIES", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"relative sandbox root": func(c *Config) { c.Sandbox.Root = "sandbox" },
		"zero cache entries":    func(c *Config) { c.Cache.MaxEntries = 0 },
		"zero cache bytes":      func(c *Config) { c.Cache.MaxBytes = 0 },
		"zero ttl":              func(c *Config) { c.Cache.TTLSeconds = 0 },
		"zero workers":          func(c *Config) { c.Storage.Workers = 0 },
		"negative rps":          func(c *Config) { c.Remote.RequestsPerSecond = -1 },
		"zero remote timeout":   func(c *Config) { c.Remote.TimeoutSeconds = 0 },
		"unknown log level":     func(c *Config) { c.Logging.Level = "verbose" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
