// Package middleware provides fiber middleware shared across the API: rate
// limiting and request logging.
package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/storage/memory/v2"

	"github.com/salescope/salescope/internal/observability"
)

// RateLimiterConfig holds configuration for one rate limiter.
type RateLimiterConfig struct {
	Name       string                 // Limiter name (for metrics)
	Max        int                    // Maximum requests per window
	Expiration time.Duration          // Window length
	KeyFunc    func(fiber.Ctx) string // Key per client; defaults to IP
	Message    string                 // Rejection payload message
	Metrics    *observability.Metrics // Optional
}

// NewRateLimiter creates a rate limiter middleware. Counters live in
// Fiber's native in-memory storage, so limits are per-instance; a rejected
// request gets the fixed envelope plus a Retry-After of the full window.
func NewRateLimiter(config RateLimiterConfig) fiber.Handler {
	storage := memory.New(memory.Config{
		GCInterval: 10 * time.Minute,
	})

	if config.KeyFunc == nil {
		config.KeyFunc = func(c fiber.Ctx) string {
			return c.IP()
		}
	}
	if config.Message == "" {
		config.Message = fmt.Sprintf("Rate limit exceeded. Maximum %d requests per %s allowed.",
			config.Max, config.Expiration.String())
	}

	limiterName := config.Name
	if limiterName == "" {
		limiterName = "default"
	}

	return limiter.New(limiter.Config{
		Max:          config.Max,
		Expiration:   config.Expiration,
		KeyGenerator: config.KeyFunc,
		LimitReached: func(c fiber.Ctx) error {
			config.Metrics.RecordRateLimitHit(limiterName)

			c.Set("Retry-After", fmt.Sprintf("%d", int(config.Expiration.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   config.Message,
			})
		},
		Storage: storage,
	})
}

// APILimiter limits list and filter-options requests per IP.
func APILimiter(max int, window time.Duration, m *observability.Metrics) fiber.Handler {
	return NewRateLimiter(RateLimiterConfig{
		Name:       "api",
		Max:        max,
		Expiration: window,
		KeyFunc: func(c fiber.Ctx) string {
			return "api:" + c.IP()
		},
		Message: "Too many requests, please try again later.",
		Metrics: m,
	})
}

// ExportLimiter limits CSV export requests per IP. Exports scan up to the
// full table, so the ceiling is much lower than the list limiter's.
func ExportLimiter(max int, window time.Duration, m *observability.Metrics) fiber.Handler {
	return NewRateLimiter(RateLimiterConfig{
		Name:       "export",
		Max:        max,
		Expiration: window,
		KeyFunc: func(c fiber.Ctx) string {
			return "export:" + c.IP()
		},
		Message: "Export limit exceeded. Please try again later.",
		Metrics: m,
	})
}
