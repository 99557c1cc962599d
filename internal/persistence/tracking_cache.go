package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const trackingKeyPrefix = "tracking:"

// TrackingCache maps tracking codes to package ids in Redis so the public
// tracking endpoint avoids a table scan per lookup. Misses are not errors.
type TrackingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTrackingCache builds a cache over an existing Redis connection. A nil
// client yields a cache that always misses.
func NewTrackingCache(r *Redis, ttl time.Duration) *TrackingCache {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TrackingCache{client: client, ttl: ttl}
}

// Get returns the cached package id for a tracking code, or "" on miss.
func (c *TrackingCache) Get(ctx context.Context, trackingCode string) (string, error) {
	if c == nil || c.client == nil {
		return "", nil
	}
	val, err := c.client.Get(ctx, trackingKeyPrefix+trackingCode).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores the tracking code mapping with the configured TTL.
func (c *TrackingCache) Set(ctx context.Context, trackingCode, packageID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, trackingKeyPrefix+trackingCode, packageID, c.ttl).Err()
}
