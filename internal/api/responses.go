// Package api wires the HTTP surface: routing, parameter validation,
// handlers and the shared error envelope.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// SendError writes the shared error envelope.
func SendError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"status":  status,
	})
}

// errorHandler converts handler errors into the shared envelope. Unexpected
// errors (query failures and the like) are logged with their real message
// and returned to the client sanitized.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
		return SendError(c, code, "Internal server error")
	}

	return SendError(c, code, err.Error())
}
