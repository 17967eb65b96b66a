package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skydata/skydata-api/internal/core/usecases"
)

// Checker verifies that a dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// Pinger is satisfied by cache clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnState is satisfied by broker clients.
type ConnState interface {
	IsConnected() bool
}

// Dependencies holds all services needed by HTTP handlers.
// Optional dependencies are left nil when not configured.
type Dependencies struct {
	Datos      *usecases.DatosService
	DataSource Checker
	Cache      Pinger
	Broker     ConnState
	RateStore  fiber.Storage
	Logger     *slog.Logger
}

// Options carries the HTTP-facing configuration.
type Options struct {
	AppName      string
	Version      string
	Production   bool
	CORSOrigin   string
	RateLimit    int // requests per minute per IP; 0 disables
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
