package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// Cache is a small JSON-over-redis cache. Values live for a fixed TTL set by
// the caller; invalidation is explicit.
type Cache struct {
	client *redis.Client
	prefix string
}

// New connects a cache to redis. The prefix namespaces keys so several
// deployments can share one instance.
func New(addr, username, password, prefix string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       0,
	})
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get unmarshals the cached value into dest, or returns ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache get failed")
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Set stores a JSON-marshalled value under key for the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache set failed")
		return err
	}
	return nil
}

// Delete drops the given keys; missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		log.Error().Err(err).Strs("keys", keys).Msg("cache delete failed")
		return err
	}
	return nil
}

// Ping verifies the redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
