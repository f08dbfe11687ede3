package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// Cache keeps JSON copies of entities in Redis, keyed like "recipe:<id>".
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get decodes the cached value into dst. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "reading %s from cache", key)
	}

	if err = json.Unmarshal(data, dst); err != nil {
		return false, errors.Wrapf(err, "decoding %s from cache", key)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s for cache", key)
	}
	return errors.Wrapf(c.rdb.Set(ctx, key, data, c.ttl).Err(), "writing %s to cache", key)
}

// Add writes the value only when the key is absent.
func (c *Cache) Add(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s for cache", key)
	}
	return errors.Wrapf(c.rdb.SetNX(ctx, key, data, c.ttl).Err(), "adding %s to cache", key)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(c.rdb.Del(ctx, key).Err(), "evicting %s from cache", key)
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
