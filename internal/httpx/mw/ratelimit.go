// Package mw holds optional Fiber middlewares.
package mw

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"hello-users-api/internal/logx"
	"hello-users-api/internal/redisx"
)

var mwLogger = logx.GetScope("mw")

// incrScript increments KEYS[1] and arms its TTL (ARGV[1], ms) on first hit.
var incrScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then redis.call('PEXPIRE', KEYS[1], ARGV[1]) end
return current`)

// KeyPrefix namespaces limiter counters in Redis.
const KeyPrefix = "rl:"

// RateLimit limits each client IP to limit requests per windowSec seconds.
// With a Redis client the counter is shared across instances; without one
// Fiber's in-memory limiter is used. Redis failures let the request through.
func RateLimit(rdb *redisx.Client, windowSec int, limit int) fiber.Handler {
	windowSec = lo.Ternary(windowSec > 0, windowSec, 60)
	keyFn := func(c *fiber.Ctx) string { return "ip:" + c.IP() }

	if rdb == nil {
		return limiter.New(limiter.Config{
			Max:          limit,
			Expiration:   time.Duration(windowSec) * time.Second,
			KeyGenerator: keyFn,
			LimitReached: func(_ *fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
			},
		})
	}

	ttlMs := int64(windowSec) * 1000
	return func(c *fiber.Ctx) error {
		key := KeyPrefix + keyFn(c)
		ctx, cancel := context.WithTimeout(c.Context(), 200*time.Millisecond)
		defer cancel()
		n, err := incrScript.Run(ctx, rdb, []string{key}, ttlMs).Int64()
		if err != nil {
			mwLogger.Sugar().Warnw("rate limit backend error", "err", err)
			return c.Next()
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lo.Max([]int64{0, int64(limit) - n}), 10))
		if n > int64(limit) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(windowSec))
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}
}
