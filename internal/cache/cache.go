// Package cache provides a cache-aside store for API responses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encodable values by key.
type Cache interface {
	// Get decodes the cached value for key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key string, value any) error
}

// Noop is a Cache that never stores anything.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set discards the value.
func (Noop) Set(context.Context, string, any) error { return nil }

// RedisConfig configures a Redis-backed cache.
type RedisConfig struct {
	Client redis.UniversalClient
	TTL    time.Duration
	Prefix string
}

// Redis is a Cache backed by Redis string keys with a TTL.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedis creates a Redis cache.
func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Client == nil {
		return nil, errors.New("client cannot be nil")
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "grimorio:"
	}

	return &Redis{client: cfg.Client, ttl: cfg.TTL, prefix: prefix}, nil
}

// Get decodes the cached value for key into dst.
func (c *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}

	return true, nil
}

// Set stores value under key with the configured TTL.
func (c *Redis) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}

	return nil
}
