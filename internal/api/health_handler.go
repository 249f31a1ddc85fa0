package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// HealthChecker reports whether the database is reachable and how many
// records are loaded.
type HealthChecker interface {
	RecordCount(ctx context.Context) (int64, error)
}

// HealthHandler serves GET /api/health.
type HealthHandler struct {
	db      HealthChecker
	version string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(db HealthChecker, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// HandleHealth returns 200 with the record count, or 503 when the database
// cannot be queried.
func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	count, err := h.db.RecordCount(c.RequestCtx())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  "disconnected",
			"error":     err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":        "healthy",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"database":      "connected",
		"recordsLoaded": count,
		"version":       h.version,
	})
}
