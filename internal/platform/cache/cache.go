// Package cache wraps Redis based JSON caching for read-heavy aggregations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss indicates the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache stores JSON encoded values with a TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New instantiates the cache helper.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key composes a cache key from parts.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Get unmarshals the cached value into target.
func (c *Cache) Get(ctx context.Context, key string, target any) error {
	if c == nil || c.client == nil {
		return ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// Set stores value under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate removes keys matching the given prefix.
func (c *Cache) Invalidate(ctx context.Context, prefix string) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
