package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skydata/skydata-api/internal/adapters/http"
	"github.com/skydata/skydata-api/internal/adapters/jsonfile"
	natsadapter "github.com/skydata/skydata-api/internal/adapters/nats"
	"github.com/skydata/skydata-api/internal/adapters/valkey"
	"github.com/skydata/skydata-api/internal/core/usecases"
	"github.com/skydata/skydata-api/internal/pkg/config"
	"github.com/skydata/skydata-api/internal/pkg/logging"
	"github.com/skydata/skydata-api/internal/pkg/telemetry"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	cfg, err := config.Load("skydata-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Dataset
	repo := jsonfile.NewDataRepo(cfg.Data.Path)
	if err := repo.Check(ctx); err != nil {
		// served as 500s until the file appears; readiness reports it
		slog.Warn("data file not readable", "path", repo.Path(), "error", err)
	}

	deps := &http.Dependencies{
		DataSource: repo,
		Logger:     logger,
	}

	// NATS dataset alerts (optional)
	var publisher *natsadapter.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, dataset alerts disabled", "error", err)
		} else {
			defer publisher.Close()
			deps.Broker = publisher
		}
	}

	// Valkey-backed rate limiting (optional)
	if cfg.Valkey.Addr != "" {
		store, err := valkey.New(cfg.Valkey.Addr, "skydata:limiter:")
		if err != nil {
			slog.Warn("valkey unavailable, using in-memory rate limiting", "error", err)
		} else {
			defer store.Close()
			deps.RateStore = store
			deps.Cache = store
		}
	}

	// Use cases
	if publisher != nil {
		deps.Datos = usecases.NewDatosService(repo, publisher)
	} else {
		deps.Datos = usecases.NewDatosService(repo, nil)
	}

	app := http.NewApp(deps, http.Options{
		AppName:      "SKYDATA API",
		Version:      version,
		Production:   cfg.IsProduction(),
		CORSOrigin:   cfg.CORS.Origin,
		RateLimit:    cfg.Server.RateLimit,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting",
			"addr", addr,
			"env", cfg.Env,
			"version", version,
			"data", repo.Path(),
			"cors_origin", cfg.CORS.Origin,
		)
		slog.Info("endpoints",
			"health", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port),
			"datos", fmt.Sprintf("http://localhost:%d/api/datos", cfg.Server.Port),
			"docs", fmt.Sprintf("http://localhost:%d/docs", cfg.Server.Port),
		)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
