package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/salescope/salescope/internal/observability"
)

// RequestLogger logs every request with its status and duration, and feeds
// the HTTP metrics. Runs after the handler so the final status is known.
func RequestLogger(m *observability.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		elapsed := time.Since(start)
		m.RecordRequest(c.Method(), c.Path(), status, elapsed)

		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", elapsed).
			Str("ip", c.IP()).
			Msg("request")

		return err
	}
}
