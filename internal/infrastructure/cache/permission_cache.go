package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fibreflow/procurement/internal/domain/access"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InMemoryPermissionCache caches resolved permission sets in process
// memory. It serves as the L1 tier in front of the optional Redis tier.
type InMemoryPermissionCache struct {
	entries sync.Map // map[string]*cacheEntry[[]string]
	config  access.CacheConfig
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// PermissionCacheOption is a functional option for configuring the cache
type PermissionCacheOption func(*InMemoryPermissionCache)

// WithPermissionCacheConfig sets the cache configuration
func WithPermissionCacheConfig(config access.CacheConfig) PermissionCacheOption {
	return func(c *InMemoryPermissionCache) {
		c.config = config
	}
}

// WithPermissionCacheLogger sets the logger for the cache
func WithPermissionCacheLogger(logger *zap.Logger) PermissionCacheOption {
	return func(c *InMemoryPermissionCache) {
		c.logger = logger
	}
}

// NewInMemoryPermissionCache creates a permission cache and starts its
// cleanup goroutine
func NewInMemoryPermissionCache(opts ...PermissionCacheOption) *InMemoryPermissionCache {
	cache := &InMemoryPermissionCache{
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

func permissionCacheKey(userID, projectID uuid.UUID) string {
	return "perm:" + userID.String() + ":" + projectID.String()
}

// Get retrieves cached permissions for a user and project
func (c *InMemoryPermissionCache) Get(_ context.Context, userID, projectID uuid.UUID) ([]string, bool, error) {
	key := permissionCacheKey(userID, projectID)

	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry[[]string])
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.value, true, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, false, nil
}

// Set stores resolved permissions with the given TTL
func (c *InMemoryPermissionCache) Set(_ context.Context, userID, projectID uuid.UUID, permissions []string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.PermissionTTL
	}
	c.entries.Store(permissionCacheKey(userID, projectID), &cacheEntry[[]string]{
		value:     permissions,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// InvalidateUser drops cached permissions for one user across projects
func (c *InMemoryPermissionCache) InvalidateUser(_ context.Context, userID uuid.UUID) error {
	prefix := "perm:" + userID.String() + ":"
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
		}
		return true
	})
	return nil
}

// InvalidateProject drops cached permissions for one project across users
func (c *InMemoryPermissionCache) InvalidateProject(_ context.Context, projectID uuid.UUID) error {
	suffix := ":" + projectID.String()
	c.entries.Range(func(key, _ any) bool {
		if strings.HasSuffix(key.(string), suffix) {
			c.entries.Delete(key)
		}
		return true
	})
	return nil
}

// InvalidateAll drops every cached permission set
func (c *InMemoryPermissionCache) InvalidateAll(_ context.Context) error {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
	c.logger.Info("Invalidated all cached permissions")
	return nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *InMemoryPermissionCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache hit and miss counters
func (c *InMemoryPermissionCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of cached permission sets
func (c *InMemoryPermissionCache) Count() int {
	count := 0
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (c *InMemoryPermissionCache) cleanupExpired() {
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
						c.logger.Error("Panic in permission cache cleanup", zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

func (c *InMemoryPermissionCache) doCleanup() {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		entry := value.(*cacheEntry[[]string])
		if entry.isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Cleaned up expired permission cache entries", zap.Int("removed", removed))
	}
}

var _ access.PermissionCache = (*InMemoryPermissionCache)(nil)
