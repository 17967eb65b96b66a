package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/skydata/skydata-api/internal/core/domain"
	"github.com/skydata/skydata-api/internal/pkg/metrics"
)

// AlertSubjectPrefix is the subject namespace for dataset alerts.
const AlertSubjectPrefix = "skydata.alerts."

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("skydata-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure the alert stream exists
	cfg := nats.StreamConfig{
		Name:      "SKYDATA_ALERTS",
		Subjects:  []string{AlertSubjectPrefix + ">"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// AlertSubject returns the subject an alert of the given kind is published on.
func AlertSubject(kind domain.ErrorKind) string {
	return AlertSubjectPrefix + strings.ToLower(string(kind))
}

// PublishDatasetAlert publishes an alert to the alert stream.
func (p *Publisher) PublishDatasetAlert(ctx context.Context, alert *domain.DatasetAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(AlertSubject(alert.Kind), data, nats.Context(ctx))
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AlertsPublished.WithLabelValues(string(alert.Kind), outcome).Inc()
	return err
}

// IsConnected reports the broker connection state.
func (p *Publisher) IsConnected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
