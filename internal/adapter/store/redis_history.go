package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"agri-advisor/internal/domain/entity"
)

const (
	historyKeyPrefix     = "chat:history:"
	defaultHistoryRetain = 50
)

// RedisHistory stores each user's turns as a capped Redis list, oldest at the
// head.
type RedisHistory struct {
	client redis.UniversalClient
	retain int
}

func NewRedisHistory(client redis.UniversalClient, retain int) *RedisHistory {
	if retain <= 0 {
		retain = defaultHistoryRetain
	}
	return &RedisHistory{client: client, retain: retain}
}

func (r *RedisHistory) Append(ctx context.Context, userID string, turns ...entity.ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]any, 0, len(turns))
	for _, t := range turns {
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding chat turn: %w", err)
		}
		values = append(values, raw)
	}

	key := historyKeyPrefix + userID
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, int64(-r.retain), -1)
		return nil
	})
	return err
}

func (r *RedisHistory) Recent(ctx context.Context, userID string, limit int) ([]entity.ChatTurn, error) {
	if limit <= 0 {
		return []entity.ChatTurn{}, nil
	}
	raw, err := r.client.LRange(ctx, historyKeyPrefix+userID, int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	turns := make([]entity.ChatTurn, 0, len(raw))
	for _, item := range raw {
		var t entity.ChatTurn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("decoding chat turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (r *RedisHistory) Clear(ctx context.Context, userID string) error {
	return r.client.Del(ctx, historyKeyPrefix+userID).Err()
}
