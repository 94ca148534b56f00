package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fibreflow/procurement/internal/domain/access"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const permissionKeyPrefix = "access:perm:"

// RedisPermissionCache is the shared L2 permission cache. Multiple
// instances read the same resolved permission sets so a grant change
// propagates within one TTL window across the fleet.
type RedisPermissionCache struct {
	client *redis.Client
	config access.CacheConfig
}

// NewRedisPermissionCache creates an L2 permission cache and verifies
// the connection
func NewRedisPermissionCache(client *redis.Client, config access.CacheConfig) (*RedisPermissionCache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisPermissionCache{
		client: client,
		config: config,
	}, nil
}

func redisPermissionKey(userID, projectID uuid.UUID) string {
	return permissionKeyPrefix + userID.String() + ":" + projectID.String()
}

// Get retrieves cached permissions for a user and project
func (c *RedisPermissionCache) Get(ctx context.Context, userID, projectID uuid.UUID) ([]string, bool, error) {
	data, err := c.client.Get(ctx, redisPermissionKey(userID, projectID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read permission cache: %w", err)
	}

	var permissions []string
	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached permissions: %w", err)
	}
	return permissions, true, nil
}

// Set stores resolved permissions with the given TTL
func (c *RedisPermissionCache) Set(ctx context.Context, userID, projectID uuid.UUID, permissions []string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.PermissionTTL
	}
	data, err := json.Marshal(permissions)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}
	if err := c.client.Set(ctx, redisPermissionKey(userID, projectID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write permission cache: %w", err)
	}
	return nil
}

// InvalidateUser drops cached permissions for one user across projects
func (c *RedisPermissionCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	return c.deleteByPattern(ctx, permissionKeyPrefix+userID.String()+":*")
}

// InvalidateProject drops cached permissions for one project across users
func (c *RedisPermissionCache) InvalidateProject(ctx context.Context, projectID uuid.UUID) error {
	return c.deleteByPattern(ctx, permissionKeyPrefix+"*:"+projectID.String())
}

// InvalidateAll drops every cached permission set
func (c *RedisPermissionCache) InvalidateAll(ctx context.Context) error {
	return c.deleteByPattern(ctx, permissionKeyPrefix+"*")
}

// deleteByPattern scans and deletes matching keys in batches
func (c *RedisPermissionCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete permission cache keys: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan permission cache keys: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete permission cache keys: %w", err)
		}
	}
	return nil
}

// Close closes the Redis client
func (c *RedisPermissionCache) Close() error {
	return c.client.Close()
}

var _ access.PermissionCache = (*RedisPermissionCache)(nil)
