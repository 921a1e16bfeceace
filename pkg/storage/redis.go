package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rigmend/rigmend/pkg/types"
)

const redisOpTimeout = 5 * time.Second

// Redis keys, one per aggregate
const (
	redisKeyConfig    = "rigmend:config"
	redisKeyBaselines = "rigmend:baselines"
	redisKeyActionLog = "rigmend:action_log"
)

// RedisStore implements Store on a Redis server, for deployments where the
// healer shares a key-value store with the rest of the control plane.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       addr,
		Password:   password,
		DB:         db,
		MaxRetries: 3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisStore) get(key string, v any) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Config aggregate
func (s *RedisStore) SaveConfig(cfg types.Config) error {
	return s.put(redisKeyConfig, cfg)
}

func (s *RedisStore) LoadConfig() (types.Config, error) {
	var cfg types.Config
	if err := s.get(redisKeyConfig, &cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Baselines aggregate
func (s *RedisStore) SaveBaselines(samples map[string][]types.Sample) error {
	return s.put(redisKeyBaselines, samples)
}

func (s *RedisStore) LoadBaselines() (map[string][]types.Sample, error) {
	var samples map[string][]types.Sample
	if err := s.get(redisKeyBaselines, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// Action log aggregate
func (s *RedisStore) SaveActionLog(entries []types.ActionEntry) error {
	return s.put(redisKeyActionLog, entries)
}

func (s *RedisStore) LoadActionLog() ([]types.ActionEntry, error) {
	var entries []types.ActionEntry
	if err := s.get(redisKeyActionLog, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
