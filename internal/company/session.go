package company

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"campadmin/pkg/config"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps company overrides in Redis under a TTL so
// they expire with the session rather than surviving a fresh login.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore connects to Redis and verifies the connection.
func NewRedisSessionStore(cfg *config.RedisConfig) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSessionStore{client: client, ttl: cfg.SessionTTL}, nil
}

func overrideKey(userID uint) string {
	return fmt.Sprintf("session:%d:active_company", userID)
}

func (s *RedisSessionStore) SetOverride(ctx context.Context, userID, companyID uint) error {
	if err := s.client.Set(ctx, overrideKey(userID), companyID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store company override: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) GetOverride(ctx context.Context, userID uint) (uint, bool, error) {
	val, err := s.client.Get(ctx, overrideKey(userID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read company override: %w", err)
	}
	companyID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("malformed company override %q: %w", val, err)
	}
	return uint(companyID), true, nil
}

func (s *RedisSessionStore) ClearOverride(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, overrideKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear company override: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
