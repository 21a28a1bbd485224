package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the sync job. Non-secret tunables
// can come from an optional config.yaml; environment variables always
// win. Secrets (DB_USER_PASSWORD, HUBSPOT_PRIVATE_KEY) must only come
// from environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HubSpot  HubSpotConfig  `yaml:"hubspot"`
	Sync     SyncConfig     `yaml:"sync"`
}

// DatabaseConfig holds EBS SQL Server connection settings.
type DatabaseConfig struct {
	User     string `yaml:"-" env:"DB_USER"`
	Password string `yaml:"-" env:"DB_USER_PASSWORD"` // Secret - not in YAML
	Server   string `yaml:"server" env:"DB_SERVER"`
	Name     string `yaml:"name" env:"DB_NAME"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"1433"`

	Encrypt                bool `yaml:"encrypt" env:"DB_ENCRYPT" env-default:"true"`
	TrustServerCertificate bool `yaml:"trust_server_certificate" env:"DB_TRUST_SERVER_CERTIFICATE" env-default:"true"`
	ConnectTimeout         int  `yaml:"connect_timeout_seconds" env:"DB_CONNECT_TIMEOUT_SECONDS" env-default:"30"`
}

// HubSpotConfig holds CRM API settings.
type HubSpotConfig struct {
	PrivateKey string `yaml:"-" env:"HUBSPOT_PRIVATE_KEY"` // Secret - not in YAML
	BaseURL    string `yaml:"base_url" env:"HUBSPOT_BASE_URL" env-default:"https://api.hubapi.com"`
}

// SyncConfig holds pacing and batching tunables.
type SyncConfig struct {
	// BatchSize is the record count per bulk CRM call. The CRM caps
	// batch endpoints at 100 inputs.
	BatchSize int `yaml:"batch_size" env:"SYNC_BATCH_SIZE" env-default:"100"`

	// BatchPauseSeconds is the pause after processing a full batch.
	// Partial batches signal end-of-stream and skip the pause.
	BatchPauseSeconds int `yaml:"batch_pause_seconds" env:"SYNC_BATCH_PAUSE_SECONDS" env-default:"5"`

	// AssociationPauseMillis is the throttle between association calls,
	// which go one network round-trip per pair.
	AssociationPauseMillis int `yaml:"association_pause_millis" env:"SYNC_ASSOCIATION_PAUSE_MILLIS" env-default:"250"`
}

// Load reads configuration from the environment, overlaid on an optional
// config.yaml for non-secret tunables.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and tunable bounds.
func (c *Config) Validate() error {
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_USER_PASSWORD is required")
	}
	if c.Database.Server == "" {
		return fmt.Errorf("DB_SERVER is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid DB_PORT: %d", c.Database.Port)
	}
	if c.HubSpot.PrivateKey == "" {
		return fmt.Errorf("HUBSPOT_PRIVATE_KEY is required")
	}
	if c.Sync.BatchSize < 1 || c.Sync.BatchSize > 100 {
		return fmt.Errorf("SYNC_BATCH_SIZE must be between 1 and 100, got %d", c.Sync.BatchSize)
	}
	if c.Sync.BatchPauseSeconds < 0 {
		return fmt.Errorf("SYNC_BATCH_PAUSE_SECONDS must not be negative")
	}
	if c.Sync.AssociationPauseMillis < 0 {
		return fmt.Errorf("SYNC_ASSOCIATION_PAUSE_MILLIS must not be negative")
	}
	return nil
}
