package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/franciiscocg/Trading212/internal/domain/models"
)

// RedisCache is a ResultCache backed by Redis so sentiment survives process
// restarts (cold-start warm-up). Redis owns expiry via key TTLs; corrupt or
// unreadable payloads are treated as misses, never as errors.
type RedisCache struct {
	client *redis.Client
	prefix string
	opTimeout time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr, password string, db int, prefix string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if prefix == "" {
		prefix = "sentiment"
	}
	return &RedisCache{client: client, prefix: prefix, opTimeout: 3 * time.Second}, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(key string) (models.SentimentRecord, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, c.wrap(key)).Bytes()
	if err != nil {
		c.misses.Add(1)
		return models.SentimentRecord{}, false
	}
	var rec models.SentimentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		c.misses.Add(1)
		return models.SentimentRecord{}, false
	}
	c.hits.Add(1)
	return rec, true
}

func (c *RedisCache) Put(key string, rec models.SentimentRecord, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.wrap(key), data, ttl).Err()
}

func (c *RedisCache) Invalidate(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()
	_ = c.client.Unlink(ctx, c.wrap(key)).Err()
}

func (c *RedisCache) Clear(prefix string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	pattern := c.wrap(prefix) + "*"
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	_ = c.client.Unlink(ctx, keys...).Err()
}

func (c *RedisCache) Stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	entries := 0
	if keys, err := c.client.Keys(ctx, c.wrap("")+"*").Result(); err == nil {
		entries = len(keys)
	}
	return Stats{Entries: entries, Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *RedisCache) wrap(key string) string {
	return c.prefix + ":" + key
}

var _ ResultCache = (*RedisCache)(nil)
