package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores registry records by CR number.
type Cache interface {
	// Get returns ErrCacheMiss when no live entry exists.
	Get(ctx context.Context, crNumber string) (*Record, error)
	Set(ctx context.Context, crNumber string, rec *Record, ttl time.Duration) error
}

// RedisCache stores records as JSON in Redis.
type RedisCache struct {
	client redis.Cmdable
	prefix string
}

// NewRedisCache creates a Redis-backed cache. Keys are prefix + CR number.
func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "vendorgate:registry:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

// NewRedisClient parses url, connects and pings.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, crNumber string) (*Record, error) {
	data, err := c.client.Get(ctx, c.prefix+crNumber).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode cached record: %w", err)
	}
	return &rec, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, crNumber string, rec *Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+crNumber, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements Cache.
func (c *MemoryCache) Get(ctx context.Context, crNumber string) (*Record, error) {
	c.mu.RLock()
	e, ok := c.entries[crNumber]
	c.mu.RUnlock()
	if !ok || (!e.expiresAt.IsZero() && c.now().After(e.expiresAt)) {
		return nil, ErrCacheMiss
	}
	rec := e.rec
	return &rec, nil
}

// Set implements Cache. A non-positive ttl never expires.
func (c *MemoryCache) Set(ctx context.Context, crNumber string, rec *Record, ttl time.Duration) error {
	e := memoryEntry{rec: *rec}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[crNumber] = e
	c.mu.Unlock()
	return nil
}
