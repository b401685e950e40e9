package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/config"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/retry"
)

// NewRedisClient creates the report cache client.
// Returns nil, nil when Redis is not configured (host is empty); the
// dashboard then reports cache health as a warning.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.ResolveHostForDocker(cfg.Host), cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := retry.DoIfRetryable(ctx, retry.DefaultConfig(), func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
