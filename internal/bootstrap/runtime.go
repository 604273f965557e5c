// Package bootstrap wires up the application's runtime dependencies.
package bootstrap

import (
	"context"
	"fmt"

	"dwellr/internal/cache"
	"dwellr/internal/config"
	"dwellr/internal/database"
	"dwellr/internal/describe"
	"dwellr/internal/describe/anthropic"
	"dwellr/internal/observability"
	"dwellr/internal/presign"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the initialized production dependencies.
type Runtime struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Engine describe.Engine
	Issuer presign.Issuer

	tracingShutdown func(context.Context) error
}

// InitRuntime builds the full dependency graph from configuration: tracing,
// database, Redis, the description engine and the upload issuer. Redis being
// down is non-fatal; everything else is.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "dwellr-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampler,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	issuer, err := presign.NewS3Issuer(presign.Config{
		Endpoint:  cfg.StorageEndpoint,
		Region:    cfg.StorageRegion,
		Bucket:    cfg.StorageBucket,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		UseSSL:    cfg.StorageUseSSL,
		Expiry:    cfg.PresignExpiry,
	})
	if err != nil {
		return nil, fmt.Errorf("storage issuer init failed: %w", err)
	}

	return &Runtime{
		Config: cfg,
		DB:     db,
		Redis:  cache.GetClient(),
		Engine: anthropic.NewEngine(cfg.AnthropicAPIKey, cfg.AnthropicModel,
			anthropic.WithTimeout(cfg.DescribeTimeout)),
		Issuer:          issuer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Close releases runtime resources. Safe to call once at shutdown.
func (r *Runtime) Close(ctx context.Context) error {
	var firstErr error

	if r.tracingShutdown != nil {
		if err := r.tracingShutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
