package service

import (
	"context"
	"math"
	"testing"

	"swiss-zipcode-api/internal/zipcode/repository"
	"swiss-zipcode-api/internal/zipcode/transport"
	"swiss-zipcode-api/platform/apperr"
)

type testExportConfig struct {
	workers int
}

func (c testExportConfig) GetExportWorkers() int { return c.workers }

func testRows() []repository.Row {
	return []repository.Row{
		{ZipCode: "1000", OfficialName: "Lausanne", Municipality: "Lausanne", Canton: "VD", E: "2537956.3654948957", N: "1152398.7080000006"},
		{ZipCode: "3003", OfficialName: "Bern", Municipality: "Bern", Canton: "BE", E: "2600000", N: "1200000"},
		{ZipCode: "3920", OfficialName: "Zermatt", Municipality: "Zermatt", Canton: "VS"},
		{ZipCode: "8001", OfficialName: "Zürich", Municipality: "Zürich", Canton: "ZH", E: "2683260.0", N: "1248040.0"},
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := repository.Load(testRows())
	if err != nil {
		t.Fatalf("load test rows: %v", err)
	}
	return New(repo, testExportConfig{workers: 2})
}

func TestLocation_MapsRecordWithCantonName(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Location(8001)
	if err != nil {
		t.Fatalf("Location returned error: %v", err)
	}
	if resp.OfficialName != "Zürich" || resp.Canton != "ZH" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.CantonName != "Zürich" {
		t.Fatalf("expected canton display name, got %q", resp.CantonName)
	}
	if resp.Coordinates == nil || resp.Coordinates.E != "2683260" {
		t.Fatalf("unexpected coordinates: %+v", resp.Coordinates)
	}
}

func TestLocations_OrderedByZipCode(t *testing.T) {
	svc := newTestService(t)

	resp := svc.Locations()
	if resp.Total != 4 {
		t.Fatalf("expected 4 locations, got %d", resp.Total)
	}
	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i-1].ZipCode >= resp.Items[i].ZipCode {
			t.Fatalf("expected ascending zip codes, got %d before %d", resp.Items[i-1].ZipCode, resp.Items[i].ZipCode)
		}
	}
}

func TestGeodetic_ConvertsKnownCoordinates(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Geodetic(1000)
	if err != nil {
		t.Fatalf("Geodetic returned error: %v", err)
	}
	if resp.Longitude != "6.630099324963" {
		t.Fatalf("expected longitude 6.630099324963, got %s", resp.Longitude)
	}
	if resp.Latitude != "46.520011487215" {
		t.Fatalf("expected latitude 46.520011487215, got %s", resp.Latitude)
	}
}

func TestGeodetic_FailsWithoutCoordinatesButOtherReadsWork(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Geodetic(3920)
	if err == nil {
		t.Fatal("expected error for record without coordinates")
	}
	if !apperr.Is(err, apperr.KindNoCoordinates) {
		t.Fatalf("expected no-coordinates kind, got %v", err)
	}

	resp, err := svc.Location(3920)
	if err != nil {
		t.Fatalf("expected plain lookup to still work: %v", err)
	}
	if resp.Coordinates != nil {
		t.Fatalf("expected nil coordinates in response, got %+v", resp.Coordinates)
	}
}

func TestGeodetic_UnknownZipCodeIsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Geodetic(9999999)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
}

func TestConvert_StandaloneCoordinates(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Convert(transport.ConvertRequest{E: "2600000", N: "1200000"})
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if resp.Longitude != "7.438637222222" || resp.Latitude != "46.951081111111" {
		t.Fatalf("unexpected conversion result: %+v", resp)
	}
}

func TestConvert_RejectsNonDecimalInput(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Convert(transport.ConvertRequest{E: "east", N: "1200000"})
	if err == nil {
		t.Fatal("expected error for non-decimal input")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
}

func TestZipcodesForMunicipality_UnknownNameYieldsEmptyList(t *testing.T) {
	svc := newTestService(t)

	resp := svc.ZipcodesForMunicipality("Atlantis")
	if len(resp.ZipCodes) != 0 {
		t.Fatalf("expected empty list, got %v", resp.ZipCodes)
	}
	if resp.Municipality != "Atlantis" {
		t.Fatalf("expected echoed name, got %q", resp.Municipality)
	}
}

func TestCantons_IncludesDisplayNames(t *testing.T) {
	svc := newTestService(t)

	resp := svc.Cantons()
	if resp.Total != 4 {
		t.Fatalf("expected 4 cantons, got %d", resp.Total)
	}
	if resp.Items[0].Code != "BE" || resp.Items[0].Name != "Bern" {
		t.Fatalf("unexpected first canton: %+v", resp.Items[0])
	}
}

func TestStats_CountsLocatedRecords(t *testing.T) {
	svc := newTestService(t)

	stats := svc.Stats()
	if stats.Records != 4 || stats.WithCoordinates != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Municipalities != 4 || stats.Cantons != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestExportGeoJSON_CoversExactlyLocatedRecords(t *testing.T) {
	svc := newTestService(t)

	collection, err := svc.ExportGeoJSON(context.Background())
	if err != nil {
		t.Fatalf("ExportGeoJSON returned error: %v", err)
	}
	if collection.Type != "FeatureCollection" {
		t.Fatalf("unexpected collection type %q", collection.Type)
	}
	if len(collection.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(collection.Features))
	}

	first := collection.Features[0]
	if first.Type != "Feature" || first.Geometry.Type != "Point" {
		t.Fatalf("unexpected feature envelope: %+v", first)
	}
	if first.Properties.ZipCode != 1000 {
		t.Fatalf("expected features ordered by zip code, first was %d", first.Properties.ZipCode)
	}
	if math.Abs(first.Geometry.Coordinates[0]-6.630099324963) > 1e-9 {
		t.Fatalf("unexpected longitude %v", first.Geometry.Coordinates[0])
	}
	if math.Abs(first.Geometry.Coordinates[1]-46.520011487215) > 1e-9 {
		t.Fatalf("unexpected latitude %v", first.Geometry.Coordinates[1])
	}

	for _, feature := range collection.Features {
		if feature.Properties.ZipCode == 3920 {
			t.Fatal("expected record without coordinates to be excluded from the export")
		}
	}
}
