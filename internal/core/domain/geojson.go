package domain

import "encoding/json"

// GeoJSON object type names.
const (
	TypeFeatureCollection  = "FeatureCollection"
	TypeFeature            = "Feature"
	TypePoint              = "Point"
	TypeLineString         = "LineString"
	TypePolygon            = "Polygon"
	TypeMultiPoint         = "MultiPoint"
	TypeMultiLineString    = "MultiLineString"
	TypeMultiPolygon       = "MultiPolygon"
	TypeGeometryCollection = "GeometryCollection"
)

// FeatureCollection is the root document served by the API.
// Feature order is the order of the backing source. Members without a field
// (name, crs, ...) are kept in Foreign and written back unchanged.
type FeatureCollection struct {
	Type     string         `json:"type"`
	Features []Feature      `json:"features"`
	BBox     []float64      `json:"bbox,omitempty"`
	Foreign  map[string]any `json:"-"`
}

// Feature pairs a geometry with the attributes of one monitoring station.
type Feature struct {
	Type       string         `json:"type"`
	ID         any            `json:"id,omitempty"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
	BBox       []float64      `json:"bbox,omitempty"`
	Foreign    map[string]any `json:"-"`
}

// Geometry describes the shape of a feature. Coordinates are kept in their
// decoded JSON form; only Point coordinates are interpreted.
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates any            `json:"coordinates,omitempty"`
	Geometries  []Geometry     `json:"geometries,omitempty"`
	BBox        []float64      `json:"bbox,omitempty"`
	Foreign     map[string]any `json:"-"`
}

// StationID returns properties.id when it is a string.
func (f *Feature) StationID() (string, bool) {
	if f.Properties == nil {
		return "", false
	}
	id, ok := f.Properties["id"].(string)
	return id, ok
}

// Point returns the position of a Point geometry.
// ok is false for any other geometry or malformed coordinates.
func (g *Geometry) Point() (p GeoPoint, ok bool) {
	if g == nil || g.Type != TypePoint {
		return GeoPoint{}, false
	}
	coords, isSlice := g.Coordinates.([]any)
	if !isSlice || len(coords) != 2 {
		return GeoPoint{}, false
	}
	lon, lonOK := coords[0].(float64)
	lat, latOK := coords[1].(float64)
	if !lonOK || !latOK {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: lat, Lon: lon}, true
}

func (fc *FeatureCollection) UnmarshalJSON(data []byte) error {
	type plain FeatureCollection
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	foreign, err := foreignMembers(data, "type", "features", "bbox")
	if err != nil {
		return err
	}
	p.Foreign = foreign
	*fc = FeatureCollection(p)
	return nil
}

func (fc FeatureCollection) MarshalJSON() ([]byte, error) {
	type plain FeatureCollection
	return withForeign(plain(fc), fc.Foreign)
}

func (f *Feature) UnmarshalJSON(data []byte) error {
	type plain Feature
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	foreign, err := foreignMembers(data, "type", "id", "geometry", "properties", "bbox")
	if err != nil {
		return err
	}
	p.Foreign = foreign
	*f = Feature(p)
	return nil
}

func (f Feature) MarshalJSON() ([]byte, error) {
	type plain Feature
	return withForeign(plain(f), f.Foreign)
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	type plain Geometry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	foreign, err := foreignMembers(data, "type", "coordinates", "geometries", "bbox")
	if err != nil {
		return err
	}
	p.Foreign = foreign
	*g = Geometry(p)
	return nil
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	type plain Geometry
	return withForeign(plain(g), g.Foreign)
}

// foreignMembers returns the members of the JSON object data not listed in
// known, or nil when there are none.
func foreignMembers(data []byte, known ...string) (map[string]any, error) {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// withForeign encodes v and merges foreign into the resulting object.
// Modelled members win over foreign ones with the same name.
func withForeign(v any, foreign map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(foreign) == 0 {
		return data, err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	for k, fv := range foreign {
		if _, ok := members[k]; ok {
			continue
		}
		raw, err := json.Marshal(fv)
		if err != nil {
			return nil, err
		}
		members[k] = raw
	}
	return json.Marshal(members)
}
