package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/skydata/skydata-api/internal/core/domain"
)

// timestampLayout renders UTC instants with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// APIError is a structured error response. Stack and Path are only filled
// outside production.
type APIError struct {
	Error     string `json:"error"`   // error kind or HTTP status text
	Message   string `json:"message"` // human-readable message
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
	Stack     string `json:"stack,omitempty"`
	Path      string `json:"path,omitempty"`
}

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, name, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Error:     name,
		Message:   message,
		Timestamp: now(),
		RequestID: reqID,
	})
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, utils.StatusMessage(fiber.StatusNotFound), msg)
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, utils.StatusMessage(fiber.StatusBadRequest), msg)
}

// ErrorHandler is the single place where handler failures become HTTP
// responses. The status comes from the error when it carries one and
// defaults to 500. In production only public messages are returned.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		name := "Error"
		message := "Error interno del servidor"
		stack := ""

		var (
			de *domain.Error
			fe *fiber.Error
			sc interface{ StatusCode() int }
		)
		switch {
		case errors.As(err, &de):
			status = de.StatusCode()
			name = string(de.Kind)
			message = de.Message
			if !production {
				message = de.Error()
				stack = de.Stack()
			}
		case errors.As(err, &fe):
			status = fe.Code
			name = utils.StatusMessage(fe.Code)
			message = fe.Message
		case errors.As(err, &sc):
			status = sc.StatusCode()
			name = utils.StatusMessage(status)
			if !production {
				message = err.Error()
			}
		default:
			if !production {
				message = err.Error()
			}
		}

		level := slog.LevelError
		if status < fiber.StatusInternalServerError {
			level = slog.LevelWarn
		}
		LoggerFromCtx(c.UserContext()).LogAttrs(c.UserContext(), level, "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.OriginalURL()),
			slog.Int("status", status),
			slog.String("kind", name),
			slog.String("error", err.Error()),
		)

		reqID, _ := c.Locals("requestid").(string)
		body := APIError{
			Error:     name,
			Message:   message,
			Timestamp: now(),
			RequestID: reqID,
		}
		if !production {
			body.Stack = stack
			body.Path = c.OriginalURL()
		}

		return c.Status(status).JSON(body)
	}
}
