package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application: error boundary, panic recovery,
// CORS, and every route.
func NewApp(deps *Dependencies, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		BodyLimit:             1024 * 1024, // 1 MB max request body
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(opts.Production),
	})

	// Backstop for panics outside the route chain; handler panics are
	// recovered inside the access log (see SetupRoutes).
	app.Use(recover.New())
	app.Use(CORSMiddleware(opts.CORSOrigin, opts.Production))

	SetupRoutes(app, deps, opts)
	return app
}
