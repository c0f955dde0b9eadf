package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/invenedu/internal/port"
)

const guardKeyPrefix = "invenedu:request:"

// RedisGuard claims request keys with SETNX so duplicates are rejected across
// every server instance sharing the Redis.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

var _ port.RequestGuard = (*RedisGuard)(nil)

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKeyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim request key: %w", err)
	}

	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, guardKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release request key: %w", err)
	}
	return nil
}
