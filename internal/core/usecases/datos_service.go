package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/skydata/skydata-api/internal/core/domain"
	"github.com/skydata/skydata-api/internal/core/ports"
	"github.com/skydata/skydata-api/internal/pkg/geospatial"
)

var tracer = otel.Tracer("github.com/skydata/skydata-api/internal/core/usecases")

// DatosService serves the environmental station dataset.
type DatosService struct {
	data      ports.DataRepository
	publisher ports.EventPublisher // optional
	now       func() time.Time
}

// NewDatosService creates a new DatosService. publisher may be nil.
func NewDatosService(data ports.DataRepository, publisher ports.EventPublisher) *DatosService {
	return &DatosService{data: data, publisher: publisher, now: time.Now}
}

// Execute returns the full dataset. A dataset without features is rejected
// with an EmptyDataset error; repository errors are returned unchanged.
func (s *DatosService) Execute(ctx context.Context) (*domain.FeatureCollection, error) {
	ctx, span := tracer.Start(ctx, "DatosService.Execute")
	defer span.End()

	fc, err := s.data.GetAllData(ctx)
	if err == nil && (fc == nil || len(fc.Features) == 0) {
		err = domain.NewEmptyDataset()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.alert(ctx, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("datos.features", len(fc.Features)))
	return fc, nil
}

// ExecuteByID returns the station with the given id.
func (s *DatosService) ExecuteByID(ctx context.Context, id string) (*domain.Feature, error) {
	ctx, span := tracer.Start(ctx, "DatosService.ExecuteByID")
	defer span.End()
	span.SetAttributes(attribute.String("datos.id", id))

	f, err := s.data.GetDataByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		if !errors.Is(err, domain.ErrNotFound) {
			span.SetStatus(codes.Error, err.Error())
		}
		return nil, err
	}
	return f, nil
}

// Nearby returns the stations with a Point geometry within radiusMeters of
// (lat, lon), closest first.
func (s *DatosService) Nearby(ctx context.Context, lat, lon, radiusMeters float64) ([]domain.NearbyStation, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid position %v,%v", lat, lon)
	}
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %v", radiusMeters)
	}

	fc, err := s.Execute(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.NearbyStation
	for _, f := range fc.Features {
		p, ok := f.Geometry.Point()
		if !ok {
			continue
		}
		d := geospatial.Haversine(lat, lon, p.Lat, p.Lon)
		if d <= radiusMeters {
			out = append(out, domain.NearbyStation{Feature: f, Distance: d})
		}
	}

	// stable keeps source order for equal distances
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out, nil
}

// alert publishes a dataset alert for failures that make the dataset unusable.
// Publishing is best effort and never alters the returned error.
func (s *DatosService) alert(ctx context.Context, err error) {
	if s.publisher == nil {
		return
	}
	var de *domain.Error
	if !errors.As(err, &de) || (de.Kind != domain.KindDataInvalid && de.Kind != domain.KindEmptyDataset) {
		return
	}
	_ = s.publisher.PublishDatasetAlert(ctx, &domain.DatasetAlert{
		Kind:       de.Kind,
		Message:    de.Message,
		OccurredAt: s.now().UTC(),
	})
}
