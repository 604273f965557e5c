package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:            "8080",
		Env:             "development",
		JWTSecret:       "dev-secret-change-in-production",
		DescribeTimeout: 60 * time.Second,
		PresignExpiry:   15 * time.Minute,
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.AnthropicModel)
	assert.Equal(t, 60*time.Second, cfg.DescribeTimeout)
	assert.Equal(t, 15*time.Minute, cfg.PresignExpiry)
	assert.Equal(t, "dwellr-media", cfg.StorageBucket)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "Valid Development Config",
			mutate: func(_ *Config) {},
		},
		{
			name:    "Missing Port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: true,
		},
		{
			name:    "Missing JWT Secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: true,
		},
		{
			name:    "Presign Expiry Too Short",
			mutate:  func(c *Config) { c.PresignExpiry = 30 * time.Second },
			wantErr: true,
		},
		{
			name:    "Presign Expiry Too Long",
			mutate:  func(c *Config) { c.PresignExpiry = 2 * time.Hour },
			wantErr: true,
		},
		{
			name:    "Zero Describe Timeout",
			mutate:  func(c *Config) { c.DescribeTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "Production With Default Secret",
			mutate:  func(c *Config) { c.Env = "production" },
			wantErr: true,
		},
		{
			name: "Production With Short Secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "short"
			},
			wantErr: true,
		},
		{
			name: "Production Without API Key",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "a-strong-production-secret-of-32-plus-chars"
				c.StorageAccessKey = "ak"
				c.StorageSecretKey = "sk"
			},
			wantErr: true,
		},
		{
			name: "Valid Production Config",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "a-strong-production-secret-of-32-plus-chars"
				c.AnthropicAPIKey = "sk-ant-test"
				c.StorageAccessKey = "ak"
				c.StorageSecretKey = "sk"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
