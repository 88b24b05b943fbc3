package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) GetBytes(ctx context.Context, key string) ([]byte, error) {
	return s.client.Get(ctx, key).Bytes()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// DelCount deletes keys and reports how many existed.
func (s *Store) DelCount(ctx context.Context, keys ...string) (int64, error) {
	return s.client.Del(ctx, keys...).Result()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.getCount(ctx, key)
	return count > 0, err
}

func (s *Store) getCount(ctx context.Context, key string) (int64, error) {
	return s.client.Exists(ctx, key).Result()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
