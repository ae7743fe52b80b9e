package kvstore

import (
	"context"
	"errors"

	"app/internal/gateway"

	"github.com/redis/go-redis/v9"
)

// redisを使うKVストア。複数端末でセッションを共有したいとき用。
type Redis struct {
	cli *redis.Client
}

func NewRedis(addr string, db int) *Redis {
	return &Redis{
		cli: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
	}
}

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := s.cli.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", gateway.ErrKeyNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *Redis) Set(ctx context.Context, key string, value string) error {
	return s.cli.Set(ctx, key, value, 0).Err()
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	return s.cli.Del(ctx, key).Err()
}
