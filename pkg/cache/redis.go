package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores entries in a shared redis instance so sessions survive
// restarts and are visible to every replica.
type Redis struct {
	rdb *redis.Client
}

// NewRedis connects and pings. The returned driver owns the client.
func NewRedis(addr, password string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(Ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, data, ttl).Err()
}

func (r *Redis) SetNX(ctx context.Context, key string, data []byte, ttl time.Duration) (bool, error) {
	return r.rdb.SetNX(ctx, key, data, ttl).Result()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	return r.rdb.Del(ctx, keys...).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
