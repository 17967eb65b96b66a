package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	orbgeojson "github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"

	"github.com/skydata/skydata-api/internal/pkg/geojson"
)

// Report summarises one dataset file.
type Report struct {
	File     string   `json:"file" yaml:"file"`
	Valid    bool     `json:"valid" yaml:"valid"`
	Features int      `json:"features" yaml:"features"`
	Errors   []string `json:"errors" yaml:"errors"`
	Extent   *Extent  `json:"extent,omitempty" yaml:"extent,omitempty"`
}

// Extent is the bounding box of every geometry in the dataset.
type Extent struct {
	MinLon float64 `json:"min_lon" yaml:"min_lon"`
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLon float64 `json:"max_lon" yaml:"max_lon"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
}

// buildReport validates data. With strict set every feature must also carry
// the station properties.
func buildReport(file string, data []byte, strict bool) Report {
	r := Report{File: file, Errors: []string{}}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		r.Errors = append(r.Errors, "JSON inválido: "+err.Error())
		return r
	}

	res := geojson.Validate(doc)
	r.Errors = append(r.Errors, res.Errors...)

	var features []any
	if root, ok := doc.(map[string]any); ok {
		features, _ = root["features"].([]any)
	}
	r.Features = len(features)

	if strict {
		for i, f := range features {
			feature, ok := f.(map[string]any)
			if !ok {
				continue
			}
			for _, e := range geojson.ValidateStationProperties(feature["properties"]).Errors {
				r.Errors = append(r.Errors, fmt.Sprintf("Feature %d: %s", i, e))
			}
		}
	}

	r.Valid = len(r.Errors) == 0
	if r.Valid {
		r.Extent = extent(data)
	}
	return r
}

// extent returns nil when the collection has no geometry to bound.
func extent(data []byte) *Extent {
	fc, err := orbgeojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil
	}

	var (
		bound orb.Bound
		found bool
	)
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !found {
			bound, found = b, true
			continue
		}
		bound = bound.Union(b)
	}
	if !found {
		return nil
	}

	return &Extent{
		MinLon: bound.Min.Lon(),
		MinLat: bound.Min.Lat(),
		MaxLon: bound.Max.Lon(),
		MaxLat: bound.Max.Lat(),
	}
}

func writeReport(w io.Writer, r Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, r)
	}
}

func writeText(w io.Writer, r Report) error {
	status := "válido"
	if !r.Valid {
		status = "inválido"
	}
	if _, err := fmt.Fprintf(w, "%s: %s (%d features)\n", r.File, status, r.Features); err != nil {
		return err
	}
	for _, e := range r.Errors {
		if _, err := fmt.Fprintf(w, "  - %s\n", e); err != nil {
			return err
		}
	}
	if r.Extent != nil {
		_, err := fmt.Fprintf(w, "  extensión: [%g, %g] - [%g, %g]\n",
			r.Extent.MinLon, r.Extent.MinLat, r.Extent.MaxLon, r.Extent.MaxLat)
		return err
	}
	return nil
}
