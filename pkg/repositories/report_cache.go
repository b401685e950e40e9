package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// DefaultReportCacheTTL applies when no TTL is configured.
const DefaultReportCacheTTL = time.Hour

// ReportCache keeps recently fetched reports in Redis.
// A cache built on a nil client is a no-op: Get always misses.
type ReportCache interface {
	// Get returns the cached report, or nil on a miss.
	Get(ctx context.Context, id string) (*models.Report, error)
	Set(ctx context.Context, report *models.Report) error
	Invalidate(ctx context.Context, id string) error
	// Ping reports whether the cache is configured and reachable.
	Ping(ctx context.Context) error
}

// ErrCacheDisabled is returned by Ping when no Redis client is configured.
var ErrCacheDisabled = errors.New("report cache disabled")

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ ReportCache = (*reportCache)(nil)

// NewReportCache wraps client, which may be nil.
func NewReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ReportCache {
	if ttl <= 0 {
		ttl = DefaultReportCacheTTL
	}
	return &reportCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("report-cache"),
	}
}

func reportCacheKey(id string) string {
	return "report:" + id
}

func (c *reportCache) Get(ctx context.Context, id string) (*models.Report, error) {
	if c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, reportCacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		// Drop entries written by an incompatible version.
		c.logger.Warn("Discarding undecodable cache entry",
			zap.String("report_id", id),
			zap.Error(err))
		_ = c.client.Del(ctx, reportCacheKey(id)).Err()
		return nil, nil
	}
	return &report, nil
}

func (c *reportCache) Set(ctx context.Context, report *models.Report) error {
	if c.client == nil || report == nil {
		return nil
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report for cache: %w", err)
	}
	if err := c.client.Set(ctx, reportCacheKey(report.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

func (c *reportCache) Invalidate(ctx context.Context, id string) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, reportCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached report: %w", err)
	}
	return nil
}

func (c *reportCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}
