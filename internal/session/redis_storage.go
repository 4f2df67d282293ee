package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gudang-labs/warehouse-dashboard/pkg/config"
)

// RedisStorage keeps the session in redis, for shared-terminal deployments
// where several kiosks act as the same station.
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage connects to redis and verifies it is reachable.
func NewRedisStorage(cfg config.RedisConfig, key string) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	if key == "" {
		key = "dashboard:session"
	}
	return &RedisStorage{client: client, key: key}, nil
}

// Load reads the stored state. A missing key yields an empty state.
func (s *RedisStorage) Load(ctx context.Context) (*State, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("load session from redis: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(raw, state); err != nil {
		return &State{}, nil
	}
	return state, nil
}

// Save writes the state without expiry; logout or a failed refresh clears it.
func (s *RedisStorage) Save(ctx context.Context, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save session to redis: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (s *RedisStorage) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session in redis: %w", err)
	}
	return nil
}

// Close releases the redis connection.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
