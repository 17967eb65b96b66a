package ports

import (
	"context"

	"github.com/skydata/skydata-api/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishDatasetAlert(ctx context.Context, alert *domain.DatasetAlert) error
}
