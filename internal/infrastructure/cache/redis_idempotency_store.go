package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPending = "pending"
	idempotencyDone    = "done:"
)

// RedisIdempotencyStore implements shared.IdempotencyStore using Redis so
// replays are detected across instances
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store on an existing Redis client
func NewRedisIdempotencyStore(client redis.UniversalClient) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: "gradguide:idempotency:",
	}
}

// Reserve claims the key with SET NX
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, idempotencyPending, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	return ok, nil
}

// Complete overwrites the reservation with the result
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key, result string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, idempotencyDone+result, ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Result reads the key's state
func (s *RedisIdempotencyStore) Result(ctx context.Context, key string) (string, bool, bool, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, false, nil
	}
	if err != nil {
		return "", false, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if result, ok := strings.CutPrefix(value, idempotencyDone); ok {
		return result, true, true, nil
	}
	return "", false, true, nil
}

// Release deletes the key
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
