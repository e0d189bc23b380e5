package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient configures the Redis client backing the login rate limiter
// and idempotency replay cache, and verifies connectivity. Redis is optional
// for this app; callers skip those middlewares when no URL is set.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	// Two-user traffic; a small pool keeps idle connections down.
	if opt.PoolSize == 0 || opt.PoolSize > 4 {
		opt.PoolSize = 4
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
