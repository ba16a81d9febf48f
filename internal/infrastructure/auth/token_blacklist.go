package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records signed-out session tokens until they would have expired
type TokenBlacklist interface {
	// AddToBlacklist revokes the token identified by key for ttl
	AddToBlacklist(ctx context.Context, key string, ttl time.Duration) error
	// IsBlacklisted reports whether key has been revoked
	IsBlacklisted(ctx context.Context, key string) (bool, error)
}

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisTokenBlacklist creates a blacklist on an existing Redis client
func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: "gradguide:session:revoked:",
	}
}

// AddToBlacklist stores the key with the given TTL
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.keyPrefix+key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted checks whether the key is present
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, key string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist keeps revocations in process memory.
// Revocations are not shared between instances.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time // key -> expiry
	now     func() time.Time
}

// NewInMemoryTokenBlacklist creates a new in-memory token blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// AddToBlacklist records the key until ttl elapses
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = b.now().Add(ttl)
	return nil
}

// IsBlacklisted reports whether the key is revoked, dropping it once expired
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, ok := b.entries[key]
	if !ok {
		return false, nil
	}
	if b.now().After(expiry) {
		delete(b.entries, key)
		return false, nil
	}
	return true, nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
