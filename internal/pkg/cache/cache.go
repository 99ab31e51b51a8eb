package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON values grouped under tags so that every value of a tag
// can be dropped at once.
type Cache interface {
	// Get decodes the value under key into dest. Reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, tags ...string) error
	// Invalidate drops every value stored under tags and bumps their
	// generations.
	Invalidate(ctx context.Context, tags ...string) error
	// Generation returns a counter that Invalidate increments for tag. Keys
	// built from it never collide with values computed before an
	// invalidation, even when a slow reader stores them afterwards.
	Generation(ctx context.Context, tag string) (int64, error)
}

const (
	tagPrefix = "tag:"
	genPrefix = "gen:"
)

type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps client. A nil client yields a cache that always misses.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}

	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, tags ...string) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.key(key), data, c.ttl)
	for _, tag := range tags {
		tagKey := c.key(tagPrefix + tag)
		pipe.SAdd(ctx, tagKey, c.key(key))
		if c.ttl > 0 {
			pipe.Expire(ctx, tagKey, c.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, tags ...string) error {
	if c.client == nil {
		return nil
	}

	for _, tag := range tags {
		if err := c.client.Incr(ctx, c.key(genPrefix+tag)).Err(); err != nil {
			return fmt.Errorf("redis incr %s: %w", tag, err)
		}

		tagKey := c.key(tagPrefix + tag)
		members, err := c.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return fmt.Errorf("redis members %s: %w", tag, err)
		}
		keys := append(members, tagKey)
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis del %s: %w", tag, err)
		}
	}
	return nil
}

func (c *RedisCache) Generation(ctx context.Context, tag string) (int64, error) {
	if c.client == nil {
		return 0, nil
	}

	gen, err := c.client.Get(ctx, c.key(genPrefix+tag)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis generation %s: %w", tag, err)
	}
	return gen, nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)    { return false, nil }
func (Noop) Set(context.Context, string, any, ...string) error { return nil }
func (Noop) Invalidate(context.Context, ...string) error       { return nil }
func (Noop) Generation(context.Context, string) (int64, error) { return 0, nil }
