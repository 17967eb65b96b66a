package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/skydata/skydata-api/internal/pkg/metrics"
)

const dataTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and documentation routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, opts Options) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware(deps.logger()))

	// Access logs; also resolves handler errors into responses
	app.Use(AccessLogMiddleware())

	// Handler panics become errors here so they are logged and counted
	app.Use(recover.New())

	// Rate limiting per IP, shared through Valkey when configured
	if opts.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimit,
			Expiration: 1 * time.Minute,
			Storage:    deps.RateStore,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return newError(c, fiber.StatusTooManyRequests,
					"Too Many Requests", "Demasiadas solicitudes, intente más tarde")
			},
		}))
	}

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", opts.Version)
		return c.Next()
	})

	// ETag for conditional requests
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/health", HealthHandler(opts.Version))
	app.Get("/ready", ReadyHandler(deps))

	// Station data, 15s per-request timeout
	api := app.Group("/api")
	api.Get("/datos", timeout.NewWithContext(DatosHandler(deps), dataTimeout))
	api.Get("/datos/:id", timeout.NewWithContext(DatoByIDHandler(deps), dataTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps, opts.Production))

	// API documentation (Swagger UI)
	SetupDocs(app)
}
