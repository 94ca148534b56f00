package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fibreflow/procurement/internal/domain/access"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TieredPermissionCache layers the process-local permission cache over
// the shared Redis cache. Reads go L1 then L2, populating L1 on an L2
// hit; writes and invalidations go to both tiers. The L2 tier is
// optional; without it the cache degrades to L1 only.
type TieredPermissionCache struct {
	l1     *InMemoryPermissionCache
	l2     *RedisPermissionCache
	config access.CacheConfig
	logger *zap.Logger

	l1Hits   int64
	l1Misses int64
	l2Hits   int64
	l2Misses int64
}

// TieredPermissionCacheOption is a functional option for configuring the cache
type TieredPermissionCacheOption func(*TieredPermissionCache)

// WithTieredPermissionConfig sets the cache configuration
func WithTieredPermissionConfig(config access.CacheConfig) TieredPermissionCacheOption {
	return func(c *TieredPermissionCache) {
		c.config = config
	}
}

// WithTieredPermissionLogger sets the logger for the cache
func WithTieredPermissionLogger(logger *zap.Logger) TieredPermissionCacheOption {
	return func(c *TieredPermissionCache) {
		c.logger = logger
	}
}

// NewTieredPermissionCache creates a tiered permission cache. l2 may be nil.
func NewTieredPermissionCache(l1 *InMemoryPermissionCache, l2 *RedisPermissionCache, opts ...TieredPermissionCacheOption) *TieredPermissionCache {
	cache := &TieredPermissionCache{
		l1:     l1,
		l2:     l2,
		config: access.DefaultCacheConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Get retrieves cached permissions, trying L1 then L2
func (c *TieredPermissionCache) Get(ctx context.Context, userID, projectID uuid.UUID) ([]string, bool, error) {
	permissions, found, err := c.l1.Get(ctx, userID, projectID)
	if err != nil {
		c.logger.Warn("L1 permission cache error", zap.Error(err))
	}
	if found {
		atomic.AddInt64(&c.l1Hits, 1)
		return permissions, true, nil
	}
	atomic.AddInt64(&c.l1Misses, 1)

	if c.l2 == nil {
		return nil, false, nil
	}

	permissions, found, err = c.l2.Get(ctx, userID, projectID)
	if err != nil {
		return nil, false, err
	}
	if found {
		atomic.AddInt64(&c.l2Hits, 1)
		if err := c.l1.Set(ctx, userID, projectID, permissions, c.config.L1TTL); err != nil {
			c.logger.Warn("Failed to populate L1 permission cache", zap.Error(err))
		}
		return permissions, true, nil
	}
	atomic.AddInt64(&c.l2Misses, 1)
	return nil, false, nil
}

// Set stores resolved permissions in both tiers
func (c *TieredPermissionCache) Set(ctx context.Context, userID, projectID uuid.UUID, permissions []string, ttl time.Duration) error {
	if c.l2 != nil {
		if err := c.l2.Set(ctx, userID, projectID, permissions, ttl); err != nil {
			return err
		}
	}
	if err := c.l1.Set(ctx, userID, projectID, permissions, c.config.L1TTL); err != nil {
		c.logger.Warn("Failed to set L1 permission cache", zap.Error(err))
	}
	return nil
}

// InvalidateUser drops cached permissions for one user in both tiers
func (c *TieredPermissionCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	if c.l2 != nil {
		if err := c.l2.InvalidateUser(ctx, userID); err != nil {
			return err
		}
	}
	return c.l1.InvalidateUser(ctx, userID)
}

// InvalidateProject drops cached permissions for one project in both tiers
func (c *TieredPermissionCache) InvalidateProject(ctx context.Context, projectID uuid.UUID) error {
	if c.l2 != nil {
		if err := c.l2.InvalidateProject(ctx, projectID); err != nil {
			return err
		}
	}
	return c.l1.InvalidateProject(ctx, projectID)
}

// InvalidateAll drops every cached permission set in both tiers
func (c *TieredPermissionCache) InvalidateAll(ctx context.Context) error {
	if c.l2 != nil {
		if err := c.l2.InvalidateAll(ctx); err != nil {
			return err
		}
	}
	return c.l1.InvalidateAll(ctx)
}

// Close releases both tiers
func (c *TieredPermissionCache) Close() error {
	var lastErr error
	if c.l2 != nil {
		if err := c.l2.Close(); err != nil {
			lastErr = err
		}
	}
	if err := c.l1.Close(); err != nil {
		lastErr = err
	}
	return lastErr
}

// GetStats returns per-tier hit and miss counters
func (c *TieredPermissionCache) GetStats() (l1Hits, l1Misses, l2Hits, l2Misses int64) {
	return atomic.LoadInt64(&c.l1Hits),
		atomic.LoadInt64(&c.l1Misses),
		atomic.LoadInt64(&c.l2Hits),
		atomic.LoadInt64(&c.l2Misses)
}

var _ access.PermissionCache = (*TieredPermissionCache)(nil)
