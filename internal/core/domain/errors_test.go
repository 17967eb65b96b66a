package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/skydata/skydata-api/internal/core/domain"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      *domain.Error
		sentinel error
		kind     domain.ErrorKind
		status   int
	}{
		{"unavailable", domain.NewDataUnavailable(os.ErrNotExist), domain.ErrDataUnavailable, domain.KindDataUnavailable, 500},
		{"invalid", domain.NewDataInvalid([]string{"a", "b"}), domain.ErrDataInvalid, domain.KindDataInvalid, 500},
		{"empty", domain.NewEmptyDataset(), domain.ErrEmptyDataset, domain.KindEmptyDataset, 500},
		{"not found", domain.NewNotFound("EST-9"), domain.ErrNotFound, domain.KindNotFound, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("layer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("expected errors.Is to match %s", tt.kind)
			}
			if kind, ok := domain.KindOf(wrapped); !ok || kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, kind)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
			if tt.err.Stack() == "" {
				t.Error("expected a captured stack")
			}
		})
	}
}

func TestErrorKinds_DoNotCrossMatch(t *testing.T) {
	err := domain.NewNotFound("x")
	if errors.Is(err, domain.ErrDataInvalid) {
		t.Error("NotFound must not match DataInvalid")
	}
	if _, ok := domain.KindOf(errors.New("plain")); ok {
		t.Error("plain errors have no kind")
	}
}

func TestError_MessageAndCause(t *testing.T) {
	err := domain.NewDataUnavailable(fmt.Errorf("read /srv/data.json: %w", os.ErrNotExist))

	if strings.Contains(err.Message, "/srv") {
		t.Errorf("public message must not carry the cause: %q", err.Message)
	}
	if !strings.Contains(err.Error(), "/srv/data.json") {
		t.Errorf("Error() should include the cause: %q", err.Error())
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected cause to be unwrappable")
	}
}

func TestNewDataInvalid_JoinsViolations(t *testing.T) {
	err := domain.NewDataInvalid([]string{"uno", "dos"})
	if err.Message != "GeoJSON inválido: uno, dos" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestFeature_JSONRoundTrip(t *testing.T) {
	src := `{"type":"Feature","geometry":{"type":"Point","coordinates":[-74.0817,4.6097]},"properties":{"id":"EST-001","nombre":"Estación Centro","temperatura":22.5}}`

	var f domain.Feature
	if err := json.Unmarshal([]byte(src), &f); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	var back domain.Feature
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, back) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", f, back)
	}
}

func TestFeatureCollection_KeepsForeignMembers(t *testing.T) {
	src := `{"type":"FeatureCollection","name":"skydata","crs":{"type":"name","properties":{"name":"EPSG:4326"}},` +
		`"features":[{"type":"Feature","title":"Centro","geometry":{"type":"Point","coordinates":[-74.0817,4.6097],"bbox":[-74.0817,4.6097,-74.0817,4.6097],"extra":true},` +
		`"properties":{"id":"EST-001"}}]}`

	var fc domain.FeatureCollection
	if err := json.Unmarshal([]byte(src), &fc); err != nil {
		t.Fatal(err)
	}
	if fc.Foreign["name"] != "skydata" {
		t.Errorf("expected root name to be kept, got %v", fc.Foreign)
	}
	if fc.Features[0].Foreign["title"] != "Centro" {
		t.Errorf("expected feature title to be kept, got %v", fc.Features[0].Foreign)
	}
	if len(fc.Features[0].Geometry.BBox) != 4 {
		t.Errorf("expected geometry bbox, got %v", fc.Features[0].Geometry.BBox)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}
	var got, want any
	_ = json.Unmarshal(data, &got)
	_ = json.Unmarshal([]byte(src), &want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("document changed:\n got  %s\n want %s", data, src)
	}
}

func TestFeature_ModelledMembersWinOverForeign(t *testing.T) {
	f := domain.Feature{
		Type:       domain.TypeFeature,
		Properties: map[string]any{},
		Foreign:    map[string]any{"type": "Other", "title": "x"},
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	_ = json.Unmarshal(data, &m)
	if m["type"] != domain.TypeFeature || m["title"] != "x" {
		t.Errorf("unexpected encoding %s", data)
	}
}

func TestGeometry_Point(t *testing.T) {
	g := &domain.Geometry{Type: domain.TypePoint, Coordinates: []any{-74.0817, 4.6097}}
	p, ok := g.Point()
	if !ok || p.Lon != -74.0817 || p.Lat != 4.6097 {
		t.Errorf("unexpected point %+v (ok=%v)", p, ok)
	}

	for _, bad := range []*domain.Geometry{
		nil,
		{Type: domain.TypePolygon, Coordinates: []any{1.0, 2.0}},
		{Type: domain.TypePoint, Coordinates: []any{1.0}},
		{Type: domain.TypePoint, Coordinates: []any{"1", 2.0}},
	} {
		if _, ok := bad.Point(); ok {
			t.Errorf("expected %+v to be rejected", bad)
		}
	}
}
