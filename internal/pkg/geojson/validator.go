// Package geojson validates decoded GeoJSON documents against the
// FeatureCollection profile served by the API and the station properties
// profile.
//
// Validation runs on generic decoded JSON (map[string]any, []any, float64,
// string, bool, nil) so malformed input is reported instead of rejected by a
// typed decoder. Violations are accumulated; checking only stops early when
// the root or the features member has the wrong shape and nothing below it
// can be inspected.
package geojson

import (
	"fmt"
	"time"
)

// Result is the outcome of a validation.
type Result struct {
	Valid  bool     `json:"valid" yaml:"valid"`
	Errors []string `json:"errors" yaml:"errors"`
}

var geometryTypes = map[string]bool{
	"Point":              true,
	"LineString":         true,
	"Polygon":            true,
	"MultiPoint":         true,
	"MultiLineString":    true,
	"MultiPolygon":       true,
	"GeometryCollection": true,
}

type collector struct {
	errs []string
}

func (c *collector) addf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

func (c *collector) result() Result {
	if c.errs == nil {
		return Result{Valid: true, Errors: []string{}}
	}
	return Result{Valid: false, Errors: c.errs}
}

// Validate checks doc against the FeatureCollection profile. Only Point
// coordinates are checked in depth; other geometries need a known type and a
// coordinates member (GeometryCollection excepted).
func Validate(doc any) Result {
	var c collector

	root, ok := doc.(map[string]any)
	if !ok {
		c.addf("GeoJSON debe ser un objeto, no un array o null")
		return c.result()
	}

	if t, ok := root["type"]; !ok || t == nil {
		c.addf(`GeoJSON debe tener propiedad "type"`)
	} else if t != "FeatureCollection" {
		c.addf(`type debe ser "FeatureCollection", recibido %v`, t)
	}

	raw, ok := root["features"]
	if !ok || raw == nil {
		c.addf(`FeatureCollection debe tener propiedad "features"`)
		return c.result()
	}
	features, ok := raw.([]any)
	if !ok {
		c.addf("FeatureCollection.features debe ser un array")
		return c.result()
	}

	for i, f := range features {
		validateFeature(&c, i, f)
	}
	return c.result()
}

func validateFeature(c *collector, i int, v any) {
	feature, ok := v.(map[string]any)
	if !ok {
		c.addf("Feature %d debe ser un objeto", i)
		return
	}

	if feature["type"] != "Feature" {
		c.addf(`Feature %d debe tener type="Feature"`, i)
	}

	if g, ok := feature["geometry"]; !ok || g == nil {
		c.addf(`Feature %d debe tener propiedad "geometry"`, i)
	} else if geometry, ok := g.(map[string]any); !ok {
		c.addf("Feature %d: geometry debe ser un objeto", i)
	} else {
		validateGeometry(c, i, geometry)
	}

	if p, ok := feature["properties"]; !ok || p == nil {
		c.addf(`Feature %d debe tener propiedad "properties"`, i)
	} else if _, ok := p.(map[string]any); !ok {
		c.addf("Feature %d: properties debe ser un objeto", i)
	}
}

func validateGeometry(c *collector, i int, geometry map[string]any) {
	rawType, ok := geometry["type"]
	if !ok || rawType == nil {
		c.addf(`Geometría en feature %d debe tener propiedad "type"`, i)
		return
	}
	gt, _ := rawType.(string)
	if !geometryTypes[gt] {
		c.addf("Tipo de geometría inválido en feature %d: %v", i, rawType)
		return
	}

	coords, hasCoords := geometry["coordinates"]
	if (!hasCoords || coords == nil) && gt != "GeometryCollection" {
		c.addf(`Geometría %s en feature %d debe tener propiedad "coordinates"`, gt, i)
		return
	}

	if gt == "Point" {
		validatePoint(c, i, coords)
	}
}

func validatePoint(c *collector, i int, coords any) {
	pair, ok := coords.([]any)
	if !ok {
		c.addf("Point en feature %d debe tener coordinates como array", i)
		return
	}
	if len(pair) != 2 {
		c.addf("Point en feature %d debe tener coordinates como [longitud, latitud], recibidos %d valores", i, len(pair))
		return
	}

	lon, lonOK := pair[0].(float64)
	lat, latOK := pair[1].(float64)
	if !lonOK || !latOK {
		c.addf("Point en feature %d: coordinates deben ser números", i)
		return
	}
	if lon < -180 || lon > 180 {
		c.addf("Point en feature %d: longitud %v fuera de rango [-180, 180]", i, lon)
	}
	if lat < -90 || lat > 90 {
		c.addf("Point en feature %d: latitud %v fuera de rango [-90, 90]", i, lat)
	}
}

// stationFields lists the required station properties with their JSON kind.
var stationFields = []struct {
	name string
	kind string
}{
	{"estacion", "string"},
	{"temperatura", "number"},
	{"humedad", "number"},
	{"calidad_aire", "number"},
	{"ruido", "number"},
	{"timestamp", "string"},
}

// isoLayouts are the ISO 8601 forms accepted for timestamps. Fractional
// seconds are accepted after any seconds field.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

func isISO8601(s string) bool {
	for _, layout := range isoLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// ValidateStationProperties checks the station profile: the six required
// fields, their primitive types, and an ISO 8601 timestamp. It is never
// invoked by Validate.
func ValidateStationProperties(props any) Result {
	var c collector

	m, ok := props.(map[string]any)
	if !ok {
		c.addf("properties debe ser un objeto")
		return c.result()
	}

	for _, f := range stationFields {
		v, present := m[f.name]
		if !present || v == nil {
			c.addf("Campo requerido faltante: %s", f.name)
			continue
		}
		switch f.kind {
		case "string":
			if _, ok := v.(string); !ok {
				c.addf("Campo %s debe ser de tipo string", f.name)
			}
		case "number":
			if _, ok := v.(float64); !ok {
				c.addf("Campo %s debe ser de tipo number", f.name)
			}
		}
	}

	if ts, ok := m["timestamp"].(string); ok && !isISO8601(ts) {
		c.addf("Campo timestamp debe estar en formato ISO 8601: %q", ts)
	}

	return c.result()
}
