package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ManuelReschke/PixelPress/internal/pkg/config"
)

var client *redis.Client

// SetupCache connects the shared Redis client. A failed ping is logged, the
// client stays usable and reconnects once Redis is reachable.
func SetupCache(ctx context.Context, cfg config.Redis) *redis.Client {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("could not connect to cache", zap.String("addr", cfg.Addr()), zap.Error(err))
	} else {
		zap.L().Info("connected to cache", zap.String("addr", cfg.Addr()))
	}
	return client
}

// GetClient returns the shared client, nil before SetupCache.
func GetClient() *redis.Client {
	return client
}

// Cache is a read-through cache. Concurrent loads of the same key are
// collapsed into one. Without a Redis client every call loads directly.
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c.rdb != nil {
		if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
			return b, nil
		}
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if c.rdb != nil {
			if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
				zap.L().Debug("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Delete drops keys, used after writes that change cached aggregates.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// GetOrLoadJSON is GetOrLoad for values stored as JSON.
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var out T
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}
