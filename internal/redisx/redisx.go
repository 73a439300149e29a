// Package redisx provides Redis client functionality
package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"hello-users-api/internal/config"
)

// Client is an alias for a Redis client
type Client = redis.Client

// Open connects to Redis when REDIS_ADDR is configured. A nil client with a
// nil error means Redis is disabled.
func Open(cfg *config.Config) (*Client, func(), error) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, func() {}, err
	}
	closer := func() { _ = rdb.Close() }
	return rdb, closer, nil
}
