package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore invalidates issued JWTs before their natural expiry.
// Logout revokes a single token by JTI; a forced logout revokes every
// token a user holds by recording a cut-off instant.
type RevocationStore interface {
	// Revoke marks one token's JTI as revoked for the remaining token
	// lifetime.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether the JTI has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeAllForUser records a cut-off so every token the user was
	// issued up to now is rejected.
	RevokeAllForUser(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserRevokedSince reports whether a token issued at the given
	// instant falls under the user's cut-off.
	IsUserRevokedSince(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "procurement:revoked:"

// RedisRevocationStore keeps revocations in Redis so all instances of
// the service reject a revoked token.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore creates a revocation store over an existing
// Redis client. The caller owns the client's lifecycle.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func jtiKey(jti string) string {
	return revocationKeyPrefix + "jti:" + jti
}

func userCutoffKey(userID string) string {
	return revocationKeyPrefix + "user:" + userID
}

// Revoke marks one JTI revoked until the token would have expired anyway
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the JTI has a live revocation entry
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeAllForUser stores the current instant as the user's cut-off
func (s *RedisRevocationStore) RevokeAllForUser(ctx context.Context, userID string, ttl time.Duration) error {
	cutoff := time.Now().Unix()
	if err := s.client.Set(ctx, userCutoffKey(userID), cutoff, ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevokedSince compares the token's issue instant against the
// user's cut-off. No cut-off means the token stands.
func (s *RedisRevocationStore) IsUserRevokedSince(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := s.client.Get(ctx, userCutoffKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user revocation: %w", err)
	}

	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation cut-off: %w", err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// MemoryRevocationStore is the single-instance fallback used when Redis
// is disabled or unreachable. Revocations do not survive a restart and
// are not shared across instances.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // jti -> revocation entry expiry
	cutoffs map[string]time.Time // userID -> revocation cut-off
}

// NewMemoryRevocationStore creates an in-process revocation store
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
		cutoffs: make(map[string]time.Time),
	}
}

// Revoke marks one JTI revoked for the given duration
func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked reports whether the JTI is revoked, dropping lapsed entries
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

// RevokeAllForUser records the current instant as the user's cut-off
func (s *MemoryRevocationStore) RevokeAllForUser(_ context.Context, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs[userID] = time.Now()
	return nil
}

// IsUserRevokedSince compares with nanosecond precision so a token
// issued in the same second as the cut-off is still caught
func (s *MemoryRevocationStore) IsUserRevokedSince(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff, ok := s.cutoffs[userID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(cutoff), nil
}

var _ RevocationStore = (*MemoryRevocationStore)(nil)
