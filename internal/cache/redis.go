package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartcutlabs/salon-booking/internal/config"
)

// NewRedisClient connects to redis using the configured address. Returns nil
// when no address is configured or the server is unreachable; callers degrade
// by disabling response caching.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
