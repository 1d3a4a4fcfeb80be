package credstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis хранит все ключи в одном Redis Hash. Так несколько процессов клиента
// на одной машине видят одну и ту же пару токенов.
type Redis struct {
	rdb *redis.Client
	key string
}

// NewRedis создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой, используется "jobfeed:".
func NewRedis(ctx context.Context, redisURL, prefix string) (*Redis, error) {
	if prefix == "" {
		prefix = "jobfeed:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &Redis{rdb: rdb, key: prefix + "store"}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.HGet(ctx, r.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return v, true, nil
}

// Set пишет все поля одной командой HSET, она атомарна на стороне Redis.
func (r *Redis) Set(ctx context.Context, values map[string]string) error {
	if err := validate(values); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	return r.rdb.HSet(ctx, r.key, values).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return r.rdb.HDel(ctx, r.key, keys...).Err()
}

func (r *Redis) Close() error { return r.rdb.Close() }
