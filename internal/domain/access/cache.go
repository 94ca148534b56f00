package access

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CacheConfig holds TTL and cleanup settings for the access caches.
// Authorization decisions never outlive the TTL window.
type CacheConfig struct {
	GrantTTL        time.Duration
	PermissionTTL   time.Duration
	L1TTL           time.Duration
	CleanupInterval time.Duration
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		GrantTTL:        5 * time.Minute,
		PermissionTTL:   10 * time.Minute,
		L1TTL:           1 * time.Minute,
		CleanupInterval: 30 * time.Second,
	}
}

// GrantCache caches a user's project grants
type GrantCache interface {
	// Get retrieves the cached grants for a user; found is false on miss
	Get(ctx context.Context, userID uuid.UUID) (grants []Grant, found bool, err error)

	// Set stores a user's grants with the given TTL
	Set(ctx context.Context, userID uuid.UUID, grants []Grant, ttl time.Duration) error

	// InvalidateUser drops the cached grants for one user
	InvalidateUser(ctx context.Context, userID uuid.UUID) error

	// InvalidateAll drops every cached grant set
	InvalidateAll(ctx context.Context) error

	// Close releases cache resources
	Close() error
}

// PermissionCache caches resolved RBAC permission sets per user and project
type PermissionCache interface {
	// Get retrieves cached permissions; found is false on miss
	Get(ctx context.Context, userID, projectID uuid.UUID) (permissions []string, found bool, err error)

	// Set stores resolved permissions with the given TTL
	Set(ctx context.Context, userID, projectID uuid.UUID, permissions []string, ttl time.Duration) error

	// InvalidateUser drops cached permissions for one user across projects
	InvalidateUser(ctx context.Context, userID uuid.UUID) error

	// InvalidateProject drops cached permissions for one project across users
	InvalidateProject(ctx context.Context, projectID uuid.UUID) error

	// InvalidateAll drops every cached permission set
	InvalidateAll(ctx context.Context) error

	// Close releases cache resources
	Close() error
}
