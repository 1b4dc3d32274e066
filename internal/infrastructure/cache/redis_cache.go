// Package cache implements the read cache for derived views.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/partshop/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

var _ shared.ReadCache = (*RedisReadCache)(nil)

// scanBatch is the COUNT hint for SCAN during prefix deletes
const scanBatch = 200

// RedisReadCache stores JSON-encoded views in Redis. Keys are namespaced by
// keyPrefix so several deployments can share one database.
type RedisReadCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisReadCache connects and pings Redis
func NewRedisReadCache(ctx context.Context, addr, password string, db int, keyPrefix string) (*RedisReadCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisReadCacheWithClient(client, keyPrefix), nil
}

// NewRedisReadCacheWithClient wraps an existing client
func NewRedisReadCacheWithClient(client redis.UniversalClient, keyPrefix string) *RedisReadCache {
	return &RedisReadCache{client: client, keyPrefix: keyPrefix}
}

// Get decodes the value at key into dest
func (c *RedisReadCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value as JSON for ttl
func (c *RedisReadCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// DeletePrefix walks the keyspace with SCAN and deletes matching keys in
// batches. KEYS is never used.
func (c *RedisReadCache) DeletePrefix(ctx context.Context, prefixes ...string) error {
	for _, prefix := range prefixes {
		iter := c.client.Scan(ctx, 0, c.keyPrefix+prefix+"*", scanBatch).Iterator()
		batch := make([]string, 0, scanBatch)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == scanBatch {
				if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
					return fmt.Errorf("cache delete %s*: %w", prefix, err)
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("cache scan %s*: %w", prefix, err)
		}
		if len(batch) > 0 {
			if err := c.client.Unlink(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("cache delete %s*: %w", prefix, err)
			}
		}
	}
	return nil
}

// Close closes the Redis client
func (c *RedisReadCache) Close() error {
	return c.client.Close()
}
