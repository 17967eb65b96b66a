package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const serviceName = "SKYDATA Backend API"

// HealthHandler returns a basic liveness check. It never touches the dataset.
func HealthHandler(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"timestamp": now(),
			"version":   version,
			"service":   serviceName,
		})
	}
}

// ReadyHandler checks the data source, cache, and broker.
// Only the data source is required; the others are reported when configured.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allOK := true

		// Data file
		if deps.DataSource != nil {
			if err := deps.DataSource.Check(ctx); err != nil {
				checks["data"] = "error: " + err.Error()
				allOK = false
			} else {
				checks["data"] = "ok"
			}
		} else {
			checks["data"] = "not configured"
			allOK = false
		}

		// Valkey
		if deps.Cache != nil {
			if err := deps.Cache.Ping(ctx); err != nil {
				checks["cache"] = "error: " + err.Error()
				allOK = false
			} else {
				checks["cache"] = "ok"
			}
		} else {
			checks["cache"] = "not configured"
		}

		// NATS
		if deps.Broker != nil {
			if deps.Broker.IsConnected() {
				checks["nats"] = "ok"
			} else {
				checks["nats"] = "disconnected"
				allOK = false
			}
		} else {
			checks["nats"] = "not configured"
		}

		status := "ready"
		code := fiber.StatusOK
		if !allOK {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
