// Package cache provides a Redis-backed caching layer for external catalog
// and artist-graph lookups.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// TTL tiers: search results churn quickly, release detail drifts slowly,
// artist relationship data changes rarely.
const (
	DefaultSearchTTL    = 15 * time.Minute
	DefaultReleaseTTL   = 6 * time.Hour
	DefaultRelationsTTL = 7 * 24 * time.Hour
)

// Key prefixes for Redis cache.
const (
	KeySearch    = "cratewise:cache:search:"    // + query hash
	KeyRelease   = "cratewise:cache:release:"   // + release id
	KeyRelations = "cratewise:cache:relations:" // + artist id
)

// Config contains cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SearchTTL    time.Duration
	ReleaseTTL   time.Duration
	RelationsTTL time.Duration

	// DisableOnError disables caching after a Redis failure instead of
	// retrying every call.
	DisableOnError bool
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr:      "localhost:6379",
		SearchTTL:      DefaultSearchTTL,
		ReleaseTTL:     DefaultReleaseTTL,
		RelationsTTL:   DefaultRelationsTTL,
		DisableOnError: true,
	}
}

// Cache provides Redis-backed caching with graceful fallback: when Redis is
// unreachable every lookup is a miss and every write a no-op.
type Cache struct {
	client *redis.Client
	logger zerolog.Logger
	config Config

	mu       sync.RWMutex
	disabled bool
}

// New creates a new cache instance. An unreachable Redis is not an error;
// the cache starts disabled and the engine runs uncached.
func New(cfg Config, logger zerolog.Logger) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := &Cache{
		client: client,
		logger: logger.With().Str("component", "cache").Logger(),
		config: cfg,
	}

	if err := client.Ping(ctx).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("Redis cache unavailable, running without caching")
		c.disabled = true
		return c
	}

	c.logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis cache initialized")
	return c
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAvailable returns true if the cache is operational.
func (c *Cache) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled && c.client != nil
}

func (c *Cache) handleError(err error, operation string) {
	if err == nil || err == redis.Nil {
		return
	}

	c.logger.Debug().Err(err).Str("operation", operation).Msg("cache operation failed")

	if c.config.DisableOnError {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()
		c.logger.Warn().Msg("disabling cache due to Redis error")
	}
}

// Get retrieves a value and unmarshals it into dest, reporting whether the
// key was found. Errors degrade to misses.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.IsAvailable() {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.handleError(err, "get")
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("failed to unmarshal cached value")
		return false
	}

	return true
}

// Set stores a value with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.IsAvailable() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.handleError(err, "set")
		return err
	}

	return nil
}

// SearchTTL returns the TTL for search-tier entries.
func (c *Cache) SearchTTL() time.Duration { return c.config.SearchTTL }

// ReleaseTTL returns the TTL for release-detail entries.
func (c *Cache) ReleaseTTL() time.Duration { return c.config.ReleaseTTL }

// RelationsTTL returns the TTL for artist-relationship entries.
func (c *Cache) RelationsTTL() time.Duration { return c.config.RelationsTTL }
