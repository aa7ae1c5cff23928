package directory

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore is a second-level directory cache shared across instances.
// Failures degrade to a miss; the caller falls through to the upstream.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore wraps a redis client as a directory Store.
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger}
}

const redisKeyPrefix = "directory:"

// Get fetches a cached directory value.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	if s == nil || s.client == nil {
		return "", false
	}
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("directory store get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Set writes a directory value with expiry. Best effort.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if s == nil || s.client == nil {
		return
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		s.logger.Debug("directory store set failed", zap.String("key", key), zap.Error(err))
	}
}
