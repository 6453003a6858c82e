// Package middleware provides the HTTP middleware chain: logging, rate
// limiting, tracing, metrics and the session gate.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"blogify/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// rateLimitScript increments the counter and arms its expiry in one round trip.
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// rateLimitEnabled reports whether counters are enforced for the current APP_ENV.
// Local development and test runs are never throttled.
func rateLimitEnabled() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development", "stress":
		return false
	}
	return true
}

// CheckRateLimit checks if a resource has exceeded its rate limit.
// Returns true if allowed, false if limit exceeded.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if !rateLimitEnabled() {
		return true, nil
	}
	return countRequest(ctx, rdb, resource, id, limit, window)
}

func countRequest(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	cnt, err := rateLimitScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return cnt <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing `limit` requests per `window`.
// It keys by authenticated userID when present, otherwise by remote IP.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy returns a Fiber middleware enforcing `limit` requests per `window` with a specific failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	resourceName := ""
	if len(name) > 0 {
		resourceName = name[0]
	}
	return rateLimitHandler(rdb, limit, window, policy, resourceName, callerKey, CheckRateLimit)
}

// GlobalRateLimit caps `limit` requests per `window` across all callers of the
// named resource. It always fails closed.
func GlobalRateLimit(rdb *redis.Client, limit int, window time.Duration, name string) fiber.Handler {
	return rateLimitHandler(rdb, limit, window, FailClosed, name, func(*fiber.Ctx) string {
		return "global"
	}, CheckRateLimit)
}

// callerKey identifies the caller by user ID when authenticated, otherwise by IP.
func callerKey(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(uint); ok {
		return fmt.Sprintf("user:%d", uid)
	}
	return fmt.Sprintf("ip:%s", c.IP())
}

type limitFunc func(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error)

func rateLimitHandler(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, resourceName string, key func(*fiber.Ctx) string, check limitFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := key(c)

		resource := resourceName
		if resource == "" {
			resource = c.Path()
		}

		allowed, err := check(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return models.RespondWithError(c, fiber.StatusServiceUnavailable,
					models.NewUpstreamError("Rate limit unavailable", err))
			}
			return c.Next()
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Success: false,
				Message: "Too many requests, please try again later.",
				Code:    "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
