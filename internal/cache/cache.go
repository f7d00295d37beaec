// Package cache provides an optional Redis-backed response cache for the
// sitemap and dashboard stats. Every operation fails open: a nil cache or a
// Redis error behaves like a miss.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyAddress is returned when no Redis address is configured.
var ErrEmptyAddress = errors.New("redis address is required")

const connectionTimeout = 5 * time.Second

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// New connects to Redis and verifies the connection with a ping.
func New(addr, password string, db int, ttl time.Duration, logger *log.Logger) (*Cache, error) {
	if addr == "" {
		return nil, ErrEmptyAddress
	}
	if logger == nil {
		logger = log.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Cache{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns the cached value and whether it was present. A nil cache or
// any Redis failure reads as a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}

	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.Printf("cache: get %s failed: %v", key, err)
		return "", false
	}
	return value, true
}

// Set stores a value with the configured TTL. Failures are logged, never
// propagated.
func (c *Cache) Set(ctx context.Context, key, value string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Printf("cache: set %s failed: %v", key, err)
	}
}

func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
