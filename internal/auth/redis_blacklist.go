package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "jwt:blacklist:"

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisBlacklistStore shares revoked tokens between instances through Redis.
// Entries expire together with the token.
type RedisBlacklistStore struct {
	client redisKV
}

// NewRedisBlacklistStore wraps a go-redis client.
func NewRedisBlacklistStore(client redis.UniversalClient) *RedisBlacklistStore {
	return &RedisBlacklistStore{client: client}
}

func (s *RedisBlacklistStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	err := s.client.Get(ctx, blacklistKeyPrefix+token).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}

func (s *RedisBlacklistStore) AddToBlacklist(ctx context.Context, token string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, blacklistKeyPrefix+token, "revoked", ttl).Err()
}
