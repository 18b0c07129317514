// Package cache stores inference results between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the HTTP server and [NullCache] when caching is disabled. Keys come
// from a [Keyer] so that callers never build cache keys by hand.
package cache

import (
	"context"
	"time"
)

// TTLResult is how long an inference result stays cached.
const TTLResult = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
//
// Get returns (nil, false, nil) on a miss. A zero ttl stores the value
// without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
