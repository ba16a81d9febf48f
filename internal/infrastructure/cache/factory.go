package cache

import (
	"context"
	"fmt"

	"github.com/gradguide/backend/internal/domain/experience"
	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/gradguide/backend/internal/infrastructure/auth"
	"github.com/gradguide/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the shared-state backends the HTTP layer depends on
type Stores struct {
	Companies   experience.SummaryCache
	Idempotency shared.IdempotencyStore
	Blacklist   auth.TokenBlacklist

	redis  *redis.Client
	closer func() error
}

// Redis returns the Redis client, or nil when the stores are in memory
func (s *Stores) Redis() *redis.Client {
	return s.redis
}

// Close releases the Redis client or stops in-memory housekeeping
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// Factory creates Stores from configuration
type Factory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create connects to Redis when enabled and builds Redis-backed stores,
// otherwise in-memory ones
func (f *Factory) Create(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory caches")
		return f.InMemory(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory caches. "+
			"Sign-outs and idempotency keys are not shared between instances.",
			zap.Error(err),
		)
		return f.InMemory(), nil
	}

	f.logger.Info("Using Redis caches", zap.String("addr", f.redisConfig.Addr()))
	return f.WithClient(client), nil
}

// WithClient builds Redis-backed stores on an existing client. Closing the
// stores closes the client.
func (f *Factory) WithClient(client *redis.Client) *Stores {
	return &Stores{
		Companies:   NewRedisCompanyCache(client, f.cacheConfig.CompanyTTL),
		Idempotency: NewRedisIdempotencyStore(client),
		Blacklist:   auth.NewRedisTokenBlacklist(client),
		redis:       client,
		closer:      client.Close,
	}
}

// InMemory builds process-local stores
func (f *Factory) InMemory() *Stores {
	idem := NewInMemoryIdempotencyStore()
	return &Stores{
		Companies:   NewInMemoryCompanyCache(f.cacheConfig.CompanyTTL),
		Idempotency: idem,
		Blacklist:   auth.NewInMemoryTokenBlacklist(),
		closer:      idem.Close,
	}
}
