package jsonfile_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skydata/skydata-api/internal/adapters/jsonfile"
	"github.com/skydata/skydata-api/internal/core/domain"
)

const stationData = `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[-74.0817,4.6097]},"properties":{"id":"EST-001","nombre":"Estación Centro","temperatura":22.5}}]}`

func writeData(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestNewDataRepo_DefaultPath(t *testing.T) {
	if got := jsonfile.NewDataRepo("").Path(); got != jsonfile.DefaultPath {
		t.Errorf("expected %s, got %s", jsonfile.DefaultPath, got)
	}
}

func TestGetAllData_Success(t *testing.T) {
	repo := jsonfile.NewDataRepo(writeData(t, stationData))

	fc, err := repo.GetAllData(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.Type != domain.TypeFeatureCollection {
		t.Errorf("expected FeatureCollection, got %s", fc.Type)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	// served document is semantically the source document
	got, _ := json.Marshal(fc)
	var a, b any
	_ = json.Unmarshal(got, &a)
	_ = json.Unmarshal([]byte(stationData), &b)
	if !jsonEqual(a, b) {
		t.Errorf("round trip changed document:\n got  %s\n want %s", got, stationData)
	}
}

const foreignMemberData = `{"type":"FeatureCollection","name":"skydata","crs":{"type":"name","properties":{"name":"urn:ogc:def:crs:OGC:1.3:CRS84"}},` +
	`"features":[{"type":"Feature","title":"Centro","geometry":{"type":"Point","coordinates":[-74.0817,4.6097],"bbox":[-74.0817,4.6097,-74.0817,4.6097]},` +
	`"properties":{"id":"EST-001"}}]}`

func TestGetAllData_KeepsForeignMembers(t *testing.T) {
	repo := jsonfile.NewDataRepo(writeData(t, foreignMemberData))

	fc, err := repo.GetAllData(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := json.Marshal(fc)
	var a, b any
	_ = json.Unmarshal(got, &a)
	_ = json.Unmarshal([]byte(foreignMemberData), &b)
	if !jsonEqual(a, b) {
		t.Errorf("round trip changed document:\n got  %s\n want %s", got, foreignMemberData)
	}

	f, err := repo.GetDataByID(context.Background(), "EST-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Foreign["title"] != "Centro" || len(f.Geometry.BBox) != 4 {
		t.Errorf("feature lost members: %+v", f)
	}
}

func TestGetAllData_MissingFile(t *testing.T) {
	repo := jsonfile.NewDataRepo(filepath.Join(t.TempDir(), "nope.json"))

	_, err := repo.GetAllData(context.Background())
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected DataUnavailable, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected cause to wrap os.ErrNotExist, got %v", err)
	}
}

func TestGetAllData_Unparsable(t *testing.T) {
	repo := jsonfile.NewDataRepo(writeData(t, `{"type": "FeatureCollection", "features": [`))

	_, err := repo.GetAllData(context.Background())
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected DataUnavailable, got %v", err)
	}
}

func TestGetAllData_EmptyFeaturesIsNotARepositoryError(t *testing.T) {
	repo := jsonfile.NewDataRepo(writeData(t, `{"type":"FeatureCollection","features":[]}`))

	fc, err := repo.GetAllData(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("expected no features, got %d", len(fc.Features))
	}
}

func TestGetAllData_OutOfRangeCoordinate(t *testing.T) {
	src := strings.Replace(stationData, "[-74.0817,4.6097]", "[200,10]", 1)
	repo := jsonfile.NewDataRepo(writeData(t, src))

	_, err := repo.GetAllData(context.Background())
	if !errors.Is(err, domain.ErrDataInvalid) {
		t.Fatalf("expected DataInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "200") {
		t.Errorf("expected message to mention the coordinate, got %q", err.Error())
	}
}

func TestGetAllData_EnumeratesAllViolations(t *testing.T) {
	src := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[200,0]},"properties":{}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0,95]},"properties":{}}
	]}`
	repo := jsonfile.NewDataRepo(writeData(t, src))

	_, err := repo.GetAllData(context.Background())
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error, got %v", err)
	}
	if !strings.Contains(de.Message, "longitud 200") || !strings.Contains(de.Message, "latitud 95") {
		t.Errorf("expected both violations in message, got %q", de.Message)
	}
	if !strings.Contains(de.Message, ", ") {
		t.Errorf("expected violations joined with a delimiter, got %q", de.Message)
	}
}

func TestGetAllData_CancelledContext(t *testing.T) {
	repo := jsonfile.NewDataRepo(writeData(t, stationData))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.GetAllData(ctx); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected DataUnavailable, got %v", err)
	}
}

func TestGetAllData_ReadsFreshEachCall(t *testing.T) {
	path := writeData(t, stationData)
	repo := jsonfile.NewDataRepo(path)

	if _, err := repo.GetAllData(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := repo.GetAllData(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("expected rewritten file to be served, got %d features", len(fc.Features))
	}
}

func TestGetDataByID(t *testing.T) {
	repo := jsonfile.NewDataRepo(writeData(t, stationData))

	f, err := repo.GetDataByID(context.Background(), "EST-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Properties["nombre"] != "Estación Centro" {
		t.Errorf("unexpected feature: %+v", f.Properties)
	}
}

func TestGetDataByID_Idempotent(t *testing.T) {
	repo := jsonfile.NewDataRepo(writeData(t, stationData))

	first, err := repo.GetDataByID(context.Background(), "EST-001")
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.GetDataByID(context.Background(), "EST-001")
	if err != nil {
		t.Fatal(err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Errorf("expected identical JSON:\n%s\n%s", a, b)
	}
}

func TestGetDataByID_FirstMatchWins(t *testing.T) {
	src := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"id":"DUP","n":1}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"id":"DUP","n":2}}
	]}`
	repo := jsonfile.NewDataRepo(writeData(t, src))

	f, err := repo.GetDataByID(context.Background(), "DUP")
	if err != nil {
		t.Fatal(err)
	}
	if f.Properties["n"] != 1.0 {
		t.Errorf("expected first duplicate, got %v", f.Properties["n"])
	}
}

func TestGetDataByID_NotFound(t *testing.T) {
	repo := jsonfile.NewDataRepo(writeData(t, stationData))

	_, err := repo.GetDataByID(context.Background(), "EST-999")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "EST-999") || !strings.Contains(err.Error(), "no encontrada") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestGetDataByID_NumericIDDoesNotMatch(t *testing.T) {
	src := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"id":7}}]}`
	repo := jsonfile.NewDataRepo(writeData(t, src))

	if _, err := repo.GetDataByID(context.Background(), "7"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetDataByID_PropagatesLoadErrors(t *testing.T) {
	repo := jsonfile.NewDataRepo(filepath.Join(t.TempDir(), "missing.json"))

	if _, err := repo.GetDataByID(context.Background(), "EST-001"); !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected DataUnavailable, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	if err := jsonfile.NewDataRepo(writeData(t, "not even json")).Check(context.Background()); err != nil {
		t.Errorf("expected readable file to pass, got %v", err)
	}
	if err := jsonfile.NewDataRepo(filepath.Join(t.TempDir(), "x.json")).Check(context.Background()); err == nil {
		t.Error("expected missing file to fail")
	}
}

func jsonEqual(a, b any) bool {
	x, _ := json.Marshal(a)
	y, _ := json.Marshal(b)
	return bytes.Equal(x, y)
}
