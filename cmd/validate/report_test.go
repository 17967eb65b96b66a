package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const twoStations = `{"type":"FeatureCollection","features":[
	{"type":"Feature","geometry":{"type":"Point","coordinates":[-74.0817,4.6097]},
	 "properties":{"id":"EST-001","estacion":"Centro","temperatura":22.5,"humedad":65,"calidad_aire":45,"ruido":70,"timestamp":"2024-01-15T10:30:00Z"}},
	{"type":"Feature","geometry":{"type":"Point","coordinates":[-74.0339,4.7110]},
	 "properties":{"id":"EST-004","nombre":"Usaquén"}}
]}`

func TestBuildReport_Valid(t *testing.T) {
	r := buildReport("data.json", []byte(twoStations), false)
	if !r.Valid {
		t.Fatalf("expected valid, got %v", r.Errors)
	}
	if r.Features != 2 {
		t.Errorf("expected 2 features, got %d", r.Features)
	}
	if r.Extent == nil {
		t.Fatal("expected extent")
	}
	want := Extent{MinLon: -74.0817, MinLat: 4.6097, MaxLon: -74.0339, MaxLat: 4.7110}
	if *r.Extent != want {
		t.Errorf("expected %+v, got %+v", want, *r.Extent)
	}
}

func TestBuildReport_Strict(t *testing.T) {
	r := buildReport("data.json", []byte(twoStations), true)
	if r.Valid {
		t.Fatal("expected strict validation to fail")
	}
	for _, e := range r.Errors {
		if !strings.HasPrefix(e, "Feature 1: ") {
			t.Errorf("only the second feature lacks station fields, got %q", e)
		}
	}
	if r.Extent != nil {
		t.Error("invalid datasets have no extent")
	}
}

func TestBuildReport_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not json", `{"type":`, "JSON inválido"},
		{"out of range", `{"type":"FeatureCollection","features":[
			{"type":"Feature","geometry":{"type":"Point","coordinates":[200,0]},"properties":{}}]}`, "longitud 200"},
		{"no features", `{"type":"FeatureCollection"}`, "features"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildReport("x.json", []byte(tt.data), false)
			if r.Valid {
				t.Fatal("expected invalid")
			}
			if !strings.Contains(strings.Join(r.Errors, "\n"), tt.want) {
				t.Errorf("expected an error containing %q, got %v", tt.want, r.Errors)
			}
		})
	}
}

func TestWriteReport_Formats(t *testing.T) {
	r := buildReport("data.json", []byte(twoStations), false)

	var buf bytes.Buffer
	if err := writeReport(&buf, r, "json"); err != nil {
		t.Fatal(err)
	}
	var fromJSON Report
	if err := json.Unmarshal(buf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if !fromJSON.Valid || fromJSON.Features != 2 {
		t.Errorf("unexpected json report %+v", fromJSON)
	}

	buf.Reset()
	if err := writeReport(&buf, r, "yaml"); err != nil {
		t.Fatal(err)
	}
	var fromYAML Report
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml output: %v", err)
	}
	if fromYAML.Extent == nil || fromYAML.Extent.MaxLat != 4.7110 {
		t.Errorf("unexpected yaml report %+v", fromYAML)
	}

	buf.Reset()
	if err := writeReport(&buf, r, "text"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "data.json: válido (2 features)") {
		t.Errorf("unexpected text report %q", buf.String())
	}
}
