// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	AnthropicAPIKey string        `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `mapstructure:"ANTHROPIC_MODEL"`
	DescribeTimeout time.Duration `mapstructure:"DESCRIBE_TIMEOUT"`

	StorageEndpoint  string        `mapstructure:"STORAGE_ENDPOINT"`
	StorageRegion    string        `mapstructure:"STORAGE_REGION"`
	StorageBucket    string        `mapstructure:"STORAGE_BUCKET"`
	StorageAccessKey string        `mapstructure:"STORAGE_ACCESS_KEY"`
	StorageSecretKey string        `mapstructure:"STORAGE_SECRET_KEY"`
	StorageUseSSL    bool          `mapstructure:"STORAGE_USE_SSL"`
	PresignExpiry    time.Duration `mapstructure:"PRESIGN_EXPIRY"`
	MediaBaseURL     string        `mapstructure:"MEDIA_BASE_URL"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults are
	// enough to run in development.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "dwellr")
	viper.SetDefault("DB_PASSWORD", "dwellr")
	viper.SetDefault("DB_NAME", "dwellr")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("REDIS_URL", "localhost:6379")

	viper.SetDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-latest")
	viper.SetDefault("DESCRIBE_TIMEOUT", "60s")

	viper.SetDefault("STORAGE_ENDPOINT", "s3.amazonaws.com")
	viper.SetDefault("STORAGE_REGION", "us-east-1")
	viper.SetDefault("STORAGE_BUCKET", "dwellr-media")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("PRESIGN_EXPIRY", "15m")
	viper.SetDefault("MEDIA_BASE_URL", "https://dwellr-media.s3.amazonaws.com/")

	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DescribeTimeout <= 0 {
		return errors.New("DESCRIBE_TIMEOUT must be positive")
	}
	if c.PresignExpiry < time.Minute || c.PresignExpiry > time.Hour {
		return errors.New("PRESIGN_EXPIRY must be between 1m and 1h")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.JWTSecret == "dev-secret-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required in production")
		}
		if c.StorageAccessKey == "" || c.StorageSecretKey == "" {
			return errors.New("storage credentials are required in production")
		}
		if c.DBSSLMode == "disable" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	return nil
}
