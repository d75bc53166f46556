package config

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns nil when no REDIS_URL is configured; the
// resolution cache is optional and every caller is nil-safe.
func NewRedisClient(cfg *Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
