package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses by endpoint
// unless the handler already set one.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var directive string

		switch {
		case path == "/health" || path == "/ready" || path == "/metrics":
			directive = "no-store" // probes and scrapes must hit the server

		case strings.HasPrefix(path, "/api/datos"):
			directive = "no-cache" // revalidate with ETag; dataset may change on disk

		case strings.HasPrefix(path, "/docs"):
			directive = "public, max-age=3600"
		}

		if directive != "" {
			c.Set(fiber.HeaderCacheControl, directive)
		}
		return err
	}
}
