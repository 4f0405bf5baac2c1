package cache

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClientOptions configures the Redis connection.
type ClientOptions struct {
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewClient creates a Redis client for a single instance. Connections are lazy.
func NewClient(endpoint string, opts *ClientOptions) (redis.UniversalClient, error) {
	if endpoint == "" {
		return nil, errors.New("redis: endpoint is required")
	}

	if opts == nil {
		opts = &ClientOptions{}
	}

	return redis.NewClient(&redis.Options{
		Addr:         endpoint,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}), nil
}
