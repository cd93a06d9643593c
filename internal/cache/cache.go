// Package cache stores rendered public page payloads.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss 表示缓存中没有对应页面。
var ErrMiss = errors.New("cache miss")

// PageCache caches the public resolution of a page, keyed by page id.
type PageCache interface {
	Get(ctx context.Context, pageID uint) ([]byte, error)
	Set(ctx context.Context, pageID uint, payload []byte) error
	Invalidate(ctx context.Context, pageID uint) error
}

// RedisPageCache 基于 Redis 的公开页面缓存。
type RedisPageCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisPageCache connects to redisURL and verifies the connection.
func NewRedisPageCache(redisURL string, ttl time.Duration) (*RedisPageCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisPageCacheWithClient(client, ttl), nil
}

// NewRedisPageCacheWithClient creates a cache from an existing Redis client.
func NewRedisPageCacheWithClient(client *redis.Client, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{client: client, prefix: "public:page:", ttl: ttl}
}

func (c *RedisPageCache) key(pageID uint) string {
	return fmt.Sprintf("%s%d", c.prefix, pageID)
}

// Get returns ErrMiss when the page is not cached.
func (c *RedisPageCache) Get(ctx context.Context, pageID uint) ([]byte, error) {
	payload, err := c.client.Get(ctx, c.key(pageID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached page: %w", err)
	}
	return payload, nil
}

// Set stores payload with the configured TTL; a zero TTL never expires.
func (c *RedisPageCache) Set(ctx context.Context, pageID uint, payload []byte) error {
	if err := c.client.Set(ctx, c.key(pageID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache page: %w", err)
	}
	return nil
}

// Invalidate removes the cached page.
func (c *RedisPageCache) Invalidate(ctx context.Context, pageID uint) error {
	if err := c.client.Del(ctx, c.key(pageID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached page: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisPageCache) Close() error {
	return c.client.Close()
}

// Noop 在未配置 Redis 时使用，所有读取都未命中。
type Noop struct{}

func (Noop) Get(context.Context, uint) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, uint, []byte) error   { return nil }
func (Noop) Invalidate(context.Context, uint) error    { return nil }
