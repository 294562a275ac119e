package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, RosterSourceEmbedded, cfg.Roster.Source)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10*time.Second, cfg.Lifecycle.DependencyTimeout)
	assert.Equal(t, "https://flagcdn.com", cfg.Flags.CDNBaseURL)
	assert.Equal(t, 8, cfg.Flags.PreloadConcurrency)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "personas", cfg.Postgres.Table)
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "FILE")
	t.Setenv("ROSTER_FILE", "testdata/roster.yaml")
	t.Setenv("AGE_DEPENDENCY_TIMEOUT_SECONDS", "3")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, RosterSourceFile, cfg.Roster.Source)
	assert.Equal(t, "testdata/roster.yaml", cfg.Roster.File)
	assert.Equal(t, 3*time.Second, cfg.Lifecycle.DependencyTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "")
	t.Setenv("REDIS_PORT", "not-a-port")
	t.Setenv("REDIS_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.False(t, cfg.Redis.Enabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Roster:    RosterConfig{Source: RosterSourceEmbedded},
			Postgres:  PostgresConfig{Table: "personas"},
			Lifecycle: LifecycleConfig{DependencyTimeout: time.Second},
			Flags:     FlagConfig{PreloadConcurrency: 1, RequestTimeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown source", mutate: func(c *Config) { c.Roster.Source = "s3" }, wantErr: "unknown ROSTER_SOURCE"},
		{name: "file without path", mutate: func(c *Config) { c.Roster.Source = RosterSourceFile }, wantErr: "ROSTER_FILE"},
		{name: "zero timeout", mutate: func(c *Config) { c.Lifecycle.DependencyTimeout = 0 }, wantErr: "AGE_DEPENDENCY_TIMEOUT_SECONDS"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Flags.PreloadConcurrency = 0 }, wantErr: "FLAG_PRELOAD_CONCURRENCY"},
		{
			name:    "redis without channel",
			mutate:  func(c *Config) { c.Redis.Enabled = true },
			wantErr: "REDIS_READY_CHANNEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
