package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skydata",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skydata",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skydata",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Dataset metrics
	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skydata",
		Subsystem: "dataset",
		Name:      "loads_total",
		Help:      "Dataset reads by outcome (ok or error kind)",
	}, []string{"result"})

	DatasetLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "skydata",
		Subsystem: "dataset",
		Name:      "load_duration_seconds",
		Help:      "Time to read, parse, and validate the dataset",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
	})

	DatasetFeatures = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "skydata",
		Subsystem: "dataset",
		Name:      "features",
		Help:      "Number of features in the last successfully loaded dataset",
	})

	DatasetValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "skydata",
		Subsystem: "dataset",
		Name:      "validation_errors_total",
		Help:      "Total GeoJSON validation violations found while loading",
	})

	AlertsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skydata",
		Subsystem: "alerts",
		Name:      "published_total",
		Help:      "Dataset alerts handed to the broker, by kind and outcome",
	}, []string{"kind", "outcome"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// route pattern keeps /api/datos/:id at one series
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
