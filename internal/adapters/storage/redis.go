package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "netninja:"
	redisDialTimeout = 5 * time.Second
)

// Redis stores keys in a redis database under a fixed prefix.
type Redis struct {
	rdb *redis.Client
}

// NewRedis connects to addr and pings it.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DB:          0,
		PoolSize:    4,
		DialTimeout: redisDialTimeout,
	})

	pctx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping %s: %w", addr, err)
	}
	return &Redis{rdb: rdb}, nil
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+key).Err()
}

func (s *Redis) Close() error { return s.rdb.Close() }
