package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/config"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

const revokedKeyPrefix = "revoked:"

// redisClient is the part of *redis.Client the token store uses.
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisTokenStore keeps revoked token ids in Redis with a TTL equal to the
// token's remaining lifetime, so the set never outgrows the live tokens.
type RedisTokenStore struct {
	client redisClient
	cb     *gobreaker.CircuitBreaker
}

var _ ports.TokenStore = (*RedisTokenStore)(nil)

func NewRedisTokenStore(client redisClient) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-Auth"),
	}
}

func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
	})
	return err
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	})
	if err != nil {
		return false, err
	}
	return n.(int64) > 0, nil
}
