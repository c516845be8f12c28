package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// Redis is a Cache backed by a Redis server. Selection results survive
// process restarts and are shared across instances.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the given address and verifies the connection with a
// bounded ping so a misconfigured address fails at startup, not first use.
func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Redis{client: client}, nil
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", types.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrCacheUnavailable, err)
	}
	return val, nil
}

// SetEx implements Cache.
func (r *Redis) SetEx(ctx context.Context, key string, ttl time.Duration, value string) error {
	if err := r.client.SetEx(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete implements Cache.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrCacheUnavailable, err)
	}
	return nil
}

// Keys implements Cache.
// KEYS is acceptable here: the engine's key space is small (one entry per
// distinct profile-hash/company/language/strategy combination within the TTL).
func (r *Redis) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCacheUnavailable, err)
	}
	return keys, nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
