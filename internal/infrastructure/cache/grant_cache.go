package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fibreflow/procurement/internal/domain/access"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryGrantCache caches a user's project grants in process memory.
// Keys follow the user_projects_<userID> convention.
type InMemoryGrantCache struct {
	entries sync.Map // map[string]*cacheEntry[[]access.Grant]
	config  access.CacheConfig
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// GrantCacheOption is a functional option for configuring the cache
type GrantCacheOption func(*InMemoryGrantCache)

// WithGrantCacheConfig sets the cache configuration
func WithGrantCacheConfig(config access.CacheConfig) GrantCacheOption {
	return func(c *InMemoryGrantCache) {
		c.config = config
	}
}

// WithGrantCacheLogger sets the logger for the cache
func WithGrantCacheLogger(logger *zap.Logger) GrantCacheOption {
	return func(c *InMemoryGrantCache) {
		c.logger = logger
	}
}

// NewInMemoryGrantCache creates a grant cache and starts its cleanup goroutine
func NewInMemoryGrantCache(opts ...GrantCacheOption) *InMemoryGrantCache {
	cache := &InMemoryGrantCache{
		config: access.DefaultCacheConfig(),
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

func grantCacheKey(userID uuid.UUID) string {
	return "user_projects_" + userID.String()
}

// Get retrieves the cached grants for a user
func (c *InMemoryGrantCache) Get(_ context.Context, userID uuid.UUID) ([]access.Grant, bool, error) {
	key := grantCacheKey(userID)

	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry[[]access.Grant])
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("Grant cache hit", zap.String("key", key))
			return entry.value, true, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Grant cache miss", zap.String("key", key))
	return nil, false, nil
}

// Set stores a user's grants with the given TTL
func (c *InMemoryGrantCache) Set(_ context.Context, userID uuid.UUID, grants []access.Grant, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.GrantTTL
	}
	key := grantCacheKey(userID)
	c.entries.Store(key, &cacheEntry[[]access.Grant]{
		value:     grants,
		expiresAt: time.Now().Add(ttl),
	})
	c.logger.Debug("Cached user grants",
		zap.String("key", key),
		zap.Int("grants", len(grants)),
		zap.Duration("ttl", ttl))
	return nil
}

// InvalidateUser drops the cached grants for one user
func (c *InMemoryGrantCache) InvalidateUser(_ context.Context, userID uuid.UUID) error {
	c.entries.Delete(grantCacheKey(userID))
	return nil
}

// InvalidateAll drops every cached grant set
func (c *InMemoryGrantCache) InvalidateAll(_ context.Context) error {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
	c.logger.Info("Invalidated all cached grants")
	return nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *InMemoryGrantCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache hit and miss counters
func (c *InMemoryGrantCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of cached grant sets
func (c *InMemoryGrantCache) Count() int {
	count := 0
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (c *InMemoryGrantCache) cleanupExpired() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in grant cache cleanup", zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

func (c *InMemoryGrantCache) doCleanup() {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		entry := value.(*cacheEntry[[]access.Grant])
		if entry.isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Cleaned up expired grant cache entries", zap.Int("removed", removed))
	}
}
var _ access.GrantCache = (*InMemoryGrantCache)(nil)
