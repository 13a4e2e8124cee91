package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FeedCache is a small byte-value cache with TTL used for aggregated
// event feed results.
type FeedCache struct {
	client redis.UniversalClient
	prefix string
}

// NewFeedCache creates a Redis-backed feed cache.
func NewFeedCache(client redis.UniversalClient) *FeedCache {
	return &FeedCache{client: client, prefix: "feeds:"}
}

// Get retrieves a cached value. Returns nil, nil on a miss.
func (c *FeedCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Set stores a value with the given TTL.
func (c *FeedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
