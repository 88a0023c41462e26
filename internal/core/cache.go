// AngelaMos | 2026
// cache.go

package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through JSON cache over Redis. A nil client disables
// caching and every read goes to the loader.
type Cache struct {
	client *redis.Client
	prefix string
	group  singleflight.Group
}

func NewCache(client *redis.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *Cache) getOrLoad(
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(context.Context) ([]byte, error),
) ([]byte, error) {
	if c == nil || c.client == nil {
		return load(ctx)
	}

	full := c.key(key)

	b, err := c.client.Get(ctx, full).Bytes()
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, redis.Nil) {
		slog.Warn("cache read failed, loading from source",
			"key", full,
			"error", err,
		)
	}

	v, err, _ := c.group.Do(full, func() (any, error) {
		fresh, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.client.Set(ctx, full, fresh, ttl).Err(); setErr != nil {
			slog.Warn("cache write failed", "key", full, "error", setErr)
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("cache %s: unexpected value type", full)
	}
	return b, nil
}

func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		slog.Warn("cache invalidate failed", "key", c.key(key), "error", err)
	}
}

func GetOrLoadJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	load func(context.Context) (*T, error),
) (*T, error) {
	b, err := c.getOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, loadErr := load(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return &out, nil
}
