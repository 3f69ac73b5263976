package auth

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"jobboard-backend/internal/config"
)

// NewBlacklistStore returns a Redis backed store when cfg.Addr is set and an
// in-memory store otherwise. The returned close function releases it.
func NewBlacklistStore(ctx context.Context, cfg config.RedisConfig) (JwtBlacklistStore, func() error, error) {
	if cfg.Addr == "" {
		store := NewInMemoryBlacklistStore()
		return store, func() error { store.Close(); return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return NewRedisBlacklistStore(client), client.Close, nil
}
