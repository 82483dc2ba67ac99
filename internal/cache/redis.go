// Package cache provides the Redis access layer: the session store and
// per-client rate limiting.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache owns the Redis client shared by sessions and rate limits.
type Cache struct {
	client *redis.Client
}

// New dials redisURL and fails unless the server answers a PING.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	withPoolDefaults(opt)

	c := NewFromClient(redis.NewClient(opt))
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return c, nil
}

// withPoolDefaults sizes the pool for one session lookup per request plus
// the occasional auth rate-limit script. URL query options still win.
func withPoolDefaults(opt *redis.Options) {
	if opt.PoolSize == 0 {
		opt.PoolSize = 10
	}
	if opt.MinIdleConns == 0 {
		opt.MinIdleConns = 2
	}
	if opt.PoolTimeout == 0 {
		opt.PoolTimeout = 4 * time.Second
	}
	if opt.ConnMaxIdleTime == 0 {
		opt.ConnMaxIdleTime = 5 * time.Minute
	}
}

// NewFromClient wraps an existing client. Used by integration tests.
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Ping implements the readiness check.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
