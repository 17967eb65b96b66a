package ports

import (
	"context"

	"github.com/skydata/skydata-api/internal/core/domain"
)

// DataRepository provides the station dataset.
// Implementations read their source on every call and never retry.
type DataRepository interface {
	// GetAllData returns the full, structurally valid FeatureCollection.
	GetAllData(ctx context.Context) (*domain.FeatureCollection, error)
	// GetDataByID returns the first feature whose properties.id equals id.
	GetDataByID(ctx context.Context, id string) (*domain.Feature, error)
}
