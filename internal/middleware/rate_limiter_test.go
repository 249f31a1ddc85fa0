package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/", handler, func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	app := newLimitedApp(NewRateLimiter(RateLimiterConfig{
		Name:       "test",
		Max:        2,
		Expiration: time.Minute,
		Message:    "Too many requests, please try again later.",
	}))

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests, please try again later.", body["error"])
}

func TestRateLimiterDefaultMessage(t *testing.T) {
	app := newLimitedApp(NewRateLimiter(RateLimiterConfig{
		Max:        1,
		Expiration: time.Minute,
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "Rate limit exceeded")
}

func TestAPIAndExportLimitersAreIndependent(t *testing.T) {
	app := fiber.New()
	app.Get("/list", APILimiter(1, time.Minute, nil), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/export", ExportLimiter(1, time.Minute, nil), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Exhaust the list limiter.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/list", nil))
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/list", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Export still has its own budget.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/export", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
