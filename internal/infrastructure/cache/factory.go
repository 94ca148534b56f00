package cache

import (
	"github.com/fibreflow/procurement/internal/domain/access"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the access caches from configuration. With a Redis
// client it produces a tiered permission cache; without one everything
// stays in process memory.
type Factory struct {
	config access.CacheConfig
	redis  *redis.Client
	logger *zap.Logger
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithRedis sets the Redis client backing the shared cache tier
func WithRedis(client *redis.Client) FactoryOption {
	return func(f *Factory) {
		f.redis = client
	}
}

// WithLogger sets the logger for the factory and the caches it builds
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a cache factory
func NewFactory(config access.CacheConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		config: config,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GrantCache builds the per-node grant cache. Grants are small and
// short-lived, so they are never shared across nodes.
func (f *Factory) GrantCache() access.GrantCache {
	return NewInMemoryGrantCache(
		WithGrantCacheConfig(f.config),
		WithGrantCacheLogger(f.logger),
	)
}

// PermissionCache builds the permission cache. When Redis is available
// the L1 in-memory tier sits in front of the shared Redis tier; cache
// construction errors degrade to L1 only rather than failing startup.
func (f *Factory) PermissionCache() access.PermissionCache {
	l1 := NewInMemoryPermissionCache(
		WithPermissionCacheConfig(f.config),
		WithPermissionCacheLogger(f.logger),
	)
	if f.redis == nil {
		return l1
	}

	l2, err := NewRedisPermissionCache(f.redis, f.config)
	if err != nil {
		f.logger.Warn("Redis permission cache unavailable, using in-memory cache only",
			zap.Error(err))
		return l1
	}
	return NewTieredPermissionCache(l1, l2,
		WithTieredPermissionConfig(f.config),
		WithTieredPermissionLogger(f.logger),
	)
}
