package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/skydata/skydata-api/internal/core/domain"
	"github.com/skydata/skydata-api/internal/pkg/geojson"
	"github.com/skydata/skydata-api/internal/pkg/metrics"
)

// DefaultPath is the dataset shipped with the deployment.
const DefaultPath = "data/mock-data.json"

// DataRepo implements ports.DataRepository on top of a GeoJSON file.
// The file is read and validated on every call; nothing is cached.
type DataRepo struct {
	path string
}

// NewDataRepo creates a repository reading from path (DefaultPath when empty).
func NewDataRepo(path string) *DataRepo {
	if path == "" {
		path = DefaultPath
	}
	return &DataRepo{path: path}
}

// Path returns the backing file path.
func (r *DataRepo) Path() string {
	return r.path
}

// GetAllData reads, parses, and structurally validates the whole file.
func (r *DataRepo) GetAllData(ctx context.Context) (*domain.FeatureCollection, error) {
	start := time.Now()

	fc, err := r.load(ctx)

	result := "ok"
	if kind, ok := domain.KindOf(err); ok {
		result = string(kind)
	} else if err != nil {
		result = "error"
	}
	metrics.DatasetLoads.WithLabelValues(result).Inc()
	metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	if fc != nil {
		metrics.DatasetFeatures.Set(float64(len(fc.Features)))
	}

	return fc, err
}

func (r *DataRepo) load(ctx context.Context) (*domain.FeatureCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewDataUnavailable(err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, domain.NewDataUnavailable(fmt.Errorf("read %s: %w", r.path, err))
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewDataUnavailable(fmt.Errorf("parse %s: %w", r.path, err))
	}

	res := geojson.Validate(doc)
	if !res.Valid {
		metrics.DatasetValidationErrors.Add(float64(len(res.Errors)))
		return nil, domain.NewDataInvalid(res.Errors)
	}

	// Structure is known to be sound; a failure here means a member has a
	// shape the typed model cannot hold (e.g. a non-array bbox).
	var fc domain.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, domain.NewDataInvalid([]string{err.Error()})
	}

	return &fc, nil
}

// GetDataByID returns the first feature whose properties.id equals id.
func (r *DataRepo) GetDataByID(ctx context.Context, id string) (*domain.Feature, error) {
	fc, err := r.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	for i := range fc.Features {
		if fid, ok := fc.Features[i].StationID(); ok && fid == id {
			return &fc.Features[i], nil
		}
	}

	return nil, domain.NewNotFound(id)
}

// Check reports whether the backing file can be opened. It does not parse it.
func (r *DataRepo) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", r.path, err)
	}
	return f.Close()
}
