package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// CounterStore is the slice of redis the limiter needs; *redis.Client
// satisfies it.
type CounterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimiter is a fixed-window counter in redis, applied to the OTP-issuing
// endpoints to keep one identifier from being flooded with codes.
type RateLimiter struct {
	store  CounterStore
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(store CounterStore, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, prefix: prefix, limit: limit, window: window}
}

// MiddlewareByKey buckets requests by the derived key. The window starts on
// the first hit and is never extended by later ones.
func (r *RateLimiter) MiddlewareByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := fmt.Sprintf("%s:%s", r.prefix, keyFunc(c))
		count, err := r.store.Incr(ctx, key).Result()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "rate limiter error"})
		}
		if count == 1 {
			r.store.Expire(ctx, key, r.window)
		}
		if count > int64(r.limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "rate limit exceeded"})
		}
		return c.Next()
	}
}
