package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gradguide/backend/internal/domain/experience"
	"github.com/redis/go-redis/v9"
)

// InMemoryCompanyCache keeps the company summaries in process memory for ttl
type InMemoryCompanyCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	summaries []experience.CompanySummary
	expiresAt time.Time
	version   int64
	now       func() time.Time
}

// NewInMemoryCompanyCache creates an empty cache
func NewInMemoryCompanyCache(ttl time.Duration) *InMemoryCompanyCache {
	return &InMemoryCompanyCache{ttl: ttl, now: time.Now}
}

func (c *InMemoryCompanyCache) Get(_ context.Context) ([]experience.CompanySummary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.summaries == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return cloneSummaries(c.summaries), true, nil
}

func (c *InMemoryCompanyCache) Version(_ context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version, nil
}

func (c *InMemoryCompanyCache) Set(_ context.Context, version int64, summaries []experience.CompanySummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.version {
		return nil
	}
	c.summaries = cloneSummaries(summaries)
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *InMemoryCompanyCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summaries = nil
	c.version++
	return nil
}

// cloneSummaries copies the slices so callers cannot mutate cached state
func cloneSummaries(in []experience.CompanySummary) []experience.CompanySummary {
	out := make([]experience.CompanySummary, len(in))
	for i, s := range in {
		out[i] = s
		out[i].RecentRoles = append([]string{}, s.RecentRoles...)
		if s.AvgSalary != nil {
			avg := *s.AvgSalary
			out[i].AvgSalary = &avg
		}
	}
	return out
}

var _ experience.SummaryCache = (*InMemoryCompanyCache)(nil)

// RedisCompanyCache stores the company summaries as one JSON value in Redis.
// The version lives in its own key so every instance sees the same count.
type RedisCompanyCache struct {
	client     redis.UniversalClient
	key        string
	versionKey string
	ttl        time.Duration
}

// NewRedisCompanyCache creates a cache on an existing Redis client
func NewRedisCompanyCache(client redis.UniversalClient, ttl time.Duration) *RedisCompanyCache {
	return &RedisCompanyCache{
		client:     client,
		key:        "gradguide:companies:summary",
		versionKey: "gradguide:companies:version",
		ttl:        ttl,
	}
}

func (c *RedisCompanyCache) Get(ctx context.Context) ([]experience.CompanySummary, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read company cache: %w", err)
	}
	var summaries []experience.CompanySummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		// a value we cannot decode is treated as a miss and overwritten later
		return nil, false, nil
	}
	return summaries, true, nil
}

func (c *RedisCompanyCache) Version(ctx context.Context) (int64, error) {
	version, err := readVersion(ctx, c.client, c.versionKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read company cache version: %w", err)
	}
	return version, nil
}

// Set writes under WATCH on the version key, so an Invalidate that lands
// between the check and the write aborts the transaction.
func (c *RedisCompanyCache) Set(ctx context.Context, version int64, summaries []experience.CompanySummary) error {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to encode company cache: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, c.versionKey)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleVersion
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, raw, c.ttl)
			return nil
		})
		return err
	}, c.versionKey)

	switch {
	case err == nil, errors.Is(err, errStaleVersion), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("failed to write company cache: %w", err)
	}
}

func (c *RedisCompanyCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate company cache: %w", err)
	}
	return nil
}

var errStaleVersion = errors.New("company cache version changed")

type versionReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, r versionReader, key string) (int64, error) {
	version, err := r.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

var _ experience.SummaryCache = (*RedisCompanyCache)(nil)
