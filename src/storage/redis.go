package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"redox_tutor/src/logger"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const (
	SessionTTL    = 60 * time.Minute
	sessionPrefix = "redox:session:"
)

// ConnectRedis parses a redis:// URL and pings until the server answers or retries run out
func ConnectRedis(ctx context.Context, redisURL string, maxRetries int) (*redis.Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	if maxRetries < 0 {
		maxRetries = 0
	}
	attempt := 0
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(maxRetries)), ctx)
	err = backoff.Retry(func() error {
		attempt++
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("Redis ping failed, retrying")
			return err
		}
		return nil
	}, policy)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info().Str("addr", opts.Addr).Int("attempts", attempt).Msg("Connected to Redis")
	return client, nil
}

// RedisStorage keeps JSON-encoded values of type T under a TTL
type RedisStorage[T any] struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStorage wraps an existing client. A non-positive ttl means SessionTTL.
func NewRedisStorage[T any](client *redis.Client, ttl time.Duration) *RedisStorage[T] {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &RedisStorage[T]{client: client, ttl: ttl}
}

// key generates a Redis key for the given session ID
func (r *RedisStorage[T]) key(sessionID string) string {
	return sessionPrefix + sessionID
}

// Save stores the value and resets its TTL
func (r *RedisStorage[T]) Save(ctx context.Context, sessionID string, data *T) error {
	jsonData, err := sonic.ConfigStd.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	err = r.client.Set(ctx, r.key(sessionID), jsonData, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set session data: %w", err)
	}

	return nil
}

// Load reads the value and extends its TTL in one round trip
func (r *RedisStorage[T]) Load(ctx context.Context, sessionID string) (*T, error) {
	s, err := r.client.GetEx(ctx, r.key(sessionID), r.ttl).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to GETEX: %w", err)
	}

	var dest T
	if err := sonic.ConfigStd.Unmarshal([]byte(s), &dest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return &dest, nil
}

// Delete removes the session from Redis
func (r *RedisStorage[T]) Delete(ctx context.Context, sessionID string) error {
	err := r.client.Del(ctx, r.key(sessionID)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping tests the Redis connection
func (r *RedisStorage[T]) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStorage[T]) Close() error {
	return r.client.Close()
}
