package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const usageKeyPrefix = "usage:"

// RedisUsage keeps a running token counter per user.
type RedisUsage struct {
	client redis.UniversalClient
}

func NewRedisUsage(client redis.UniversalClient) *RedisUsage {
	return &RedisUsage{client: client}
}

func (r *RedisUsage) Increment(ctx context.Context, userID string, tokens int) error {
	if tokens <= 0 {
		return nil
	}
	return r.client.IncrBy(ctx, usageKeyPrefix+userID, int64(tokens)).Err()
}

func (r *RedisUsage) Usage(ctx context.Context, userID string) (int64, error) {
	val, err := r.client.Get(ctx, usageKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil // No usage yet
	}
	if err != nil {
		return 0, err
	}
	usage, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("usage counter for %s: %w", userID, err)
	}
	return usage, nil
}
