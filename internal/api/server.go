package api

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/middleware"
	"github.com/salescope/salescope/internal/observability"
)

// Server assembles the fiber application: middleware, routes and the
// shared error handling.
type Server struct {
	app *fiber.App
	cfg *config.Config
}

// NewServer builds the HTTP server around the given collaborators. Route
// order matters: the 404 fallback is registered last.
func NewServer(cfg *config.Config, svc SalesService, db HealthChecker, metrics *observability.Metrics, version string) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "salescope",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: splitOrigins(cfg.Server.CORSOrigins),
		AllowMethods: []string{fiber.MethodGet},
		AllowHeaders: []string{fiber.HeaderContentType, fiber.HeaderAuthorization},
	}))
	app.Use(middleware.RequestLogger(metrics))

	salesHandler := NewSalesHandler(svc)
	healthHandler := NewHealthHandler(db, version)

	apiLimiter := passthrough()
	exportLimiter := passthrough()
	if cfg.RateLimit.Enabled {
		apiLimiter = middleware.APILimiter(cfg.RateLimit.APIMax, cfg.RateLimit.APIWindow, metrics)
		exportLimiter = middleware.ExportLimiter(cfg.RateLimit.ExportMax, cfg.RateLimit.ExportWindow, metrics)
	}

	salesGroup := app.Group("/api/sales")
	salesGroup.Get("/all", salesHandler.HandleAll)
	salesGroup.Get("/export", salesHandler.HandleExport, exportLimiter)
	salesGroup.Get("/filter-options", salesHandler.HandleFilterOptions, apiLimiter)
	salesGroup.Get("/", salesHandler.HandleList, apiLimiter)

	app.Get("/api/health", healthHandler.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// 404 fallback, echoing the requested route.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Not Found",
			"message": "Route " + c.Method() + " " + c.Path() + " not found",
		})
	})

	return &Server{app: app, cfg: cfg}
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Server.Address)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func passthrough() fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Next()
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}
