package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "sync_user")
	t.Setenv("DB_USER_PASSWORD", "secret")
	t.Setenv("DB_SERVER", "ebs.internal")
	t.Setenv("DB_NAME", "ebs")
	t.Setenv("HUBSPOT_PRIVATE_KEY", "pat-token")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sync_user", cfg.Database.User)
	assert.Equal(t, "ebs.internal", cfg.Database.Server)
	assert.Equal(t, 1433, cfg.Database.Port)
	assert.True(t, cfg.Database.Encrypt)
	assert.Equal(t, "https://api.hubapi.com", cfg.HubSpot.BaseURL)
	assert.Equal(t, 100, cfg.Sync.BatchSize)
	assert.Equal(t, 5, cfg.Sync.BatchPauseSeconds)
	assert.Equal(t, 250, cfg.Sync.AssociationPauseMillis)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PORT", "14330")
	t.Setenv("SYNC_BATCH_SIZE", "25")
	t.Setenv("SYNC_BATCH_PAUSE_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 14330, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Sync.BatchSize)
	assert.Equal(t, 0, cfg.Sync.BatchPauseSeconds)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{
				User:     "sync_user",
				Password: "secret",
				Server:   "ebs.internal",
				Name:     "ebs",
				Port:     1433,
			},
			HubSpot: HubSpotConfig{PrivateKey: "pat-token"},
			Sync:    SyncConfig{BatchSize: 100, BatchPauseSeconds: 5, AssociationPauseMillis: 250},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing user", func(c *Config) { c.Database.User = "" }, "DB_USER"},
		{"missing password", func(c *Config) { c.Database.Password = "" }, "DB_USER_PASSWORD"},
		{"missing server", func(c *Config) { c.Database.Server = "" }, "DB_SERVER"},
		{"missing database name", func(c *Config) { c.Database.Name = "" }, "DB_NAME"},
		{"port out of range", func(c *Config) { c.Database.Port = 70000 }, "DB_PORT"},
		{"missing private key", func(c *Config) { c.HubSpot.PrivateKey = "" }, "HUBSPOT_PRIVATE_KEY"},
		{"batch size zero", func(c *Config) { c.Sync.BatchSize = 0 }, "SYNC_BATCH_SIZE"},
		{"batch size over cap", func(c *Config) { c.Sync.BatchSize = 101 }, "SYNC_BATCH_SIZE"},
		{"negative pause", func(c *Config) { c.Sync.BatchPauseSeconds = -1 }, "SYNC_BATCH_PAUSE_SECONDS"},
		{"negative throttle", func(c *Config) { c.Sync.AssociationPauseMillis = -1 }, "SYNC_ASSOCIATION_PAUSE_MILLIS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
