// Package snapshot caches the last cycle result per market in redis so
// external dashboards and a restarted process can see the bot's latest state.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coin-trading-bot/internal/types"
)

type RedisStore struct {
	client   *redis.Client
	exchange string
	ttl      time.Duration
}

func NewRedisStore(addr, password string, db int, exchange string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client, exchange: exchange, ttl: ttl}, nil
}

func (s *RedisStore) key(market string) string {
	return fmt.Sprintf("snapshot:%s:%s", s.exchange, market)
}

func (s *RedisStore) Save(ctx context.Context, res *types.CycleResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(res.Market), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, market string) (*types.CycleResult, error) {
	data, err := s.client.Get(ctx, s.key(market)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot from redis: %w", err)
	}
	var res types.CycleResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &res, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Noop discards snapshots. Used when no redis endpoint is configured.
type Noop struct{}

func (Noop) Save(context.Context, *types.CycleResult) error { return nil }
func (Noop) Load(context.Context, string) (*types.CycleResult, error) {
	return nil, nil
}
func (Noop) Close() error { return nil }
