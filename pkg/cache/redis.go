package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	perrors "github.com/matzehuels/poatree/pkg/errors"
)

// RedisCache stores entries in Redis. Expiry is delegated to Redis TTLs.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the server at rawURL (redis:// or rediss://)
// and pings it.
func NewRedisCache(ctx context.Context, rawURL string) (*RedisCache, error) {
	if err := perrors.ValidateRedisURL(rawURL); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidURL, err, "parse redis url")
	}
	c := NewRedisCacheFromClient(redis.NewClient(opts))
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.client.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client. The cache takes
// ownership and closes it on Close.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a value. Connection failures are retried with backoff.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	hit := false
	err := RetryWithBackoff(ctx, func() error {
		v, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return Retryable(fmt.Errorf("%w: get: %v", ErrUnavailable, err))
		}
		data, hit = v, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, hit, nil
}

// Set stores a value with the given ttl; zero means no expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
			return Retryable(fmt.Errorf("%w: set: %v", ErrUnavailable, err))
		}
		return nil
	})
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrUnavailable, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
