// Package cache provides a Redis-backed cache for rendered product responses.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "product:http:"

// ResponseCache stores rendered JSON response bodies keyed by request URI.
// All operations degrade to a miss when Redis is unavailable; callers never
// fail a request because the cache is down.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewResponseCache creates a Redis-backed response cache.
func NewResponseCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ResponseCache {
	return &ResponseCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached body for the request URI, or (nil, false) on a miss.
func (c *ResponseCache) Get(ctx context.Context, uri string) ([]byte, bool) {
	body, err := c.client.Get(ctx, keyPrefix+uri).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "cache read failed",
				slog.String("uri", uri),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}
	return body, true
}

// Set stores the body for the request URI with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, uri string, body []byte) {
	if err := c.client.Set(ctx, keyPrefix+uri, body, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed",
			slog.String("uri", uri),
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate drops every cached product response. Mutations call this so
// stale reads never outlive a write by more than one round trip.
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	return nil
}
