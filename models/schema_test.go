package models

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func strp(s string) *string { return &s }

func TestDefaultSchema_KeyOrder(t *testing.T) {
	want := []string{
		"airportCode", "airportName", "runwayLength", "runwayElevation",
		"city", "country", "countryAbbr", "airportGuide",
		"longitude", "latitude", "worldAreaCode", "gmtOffset",
		"telephone", "fax", "email", "url",
	}

	got := DefaultSchema().Keys()
	if len(got) != len(want) {
		t.Fatalf("schema has %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSchemaMap(t *testing.T) {
	schema := DefaultSchema()
	raw := []*string{
		strp("SPI"),
		strp("Abraham Lincoln Capital"),
		strp("7999"),
		strp("598"),
		strp("Springfield"),
		strp("United States"),
		strp("US"),
		nil,
		strp("89 40 40W"),
		strp("39 50 38N"),
		strp("41"),
		strp("-6"),
		strp("217-788-1060"),
		nil,
		strp("info@flyspi.com"),
		strp("http://www.flyspi.com"),
	}

	rec, err := schema.Map(raw)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}

	if rec.AirportCode != "SPI" {
		t.Errorf("AirportCode = %q", rec.AirportCode)
	}
	if rec.AirportName != "Abraham Lincoln Capital" {
		t.Errorf("AirportName = %q", rec.AirportName)
	}
	if rec.RunwayLength == nil || *rec.RunwayLength != 7999 {
		t.Errorf("RunwayLength = %v", rec.RunwayLength)
	}
	if rec.Longitude == nil || math.Abs(*rec.Longitude-(-(89+40.0/60+40.0/3600))) > 1e-9 {
		t.Errorf("Longitude = %v", rec.Longitude)
	}
	if rec.Latitude == nil || *rec.Latitude < 0 {
		t.Errorf("Latitude = %v", rec.Latitude)
	}
	if rec.WorldAreaCode == nil || *rec.WorldAreaCode != 41 {
		t.Errorf("WorldAreaCode = %v", rec.WorldAreaCode)
	}
	if rec.GMTOffset == nil || *rec.GMTOffset != -6 {
		t.Errorf("GMTOffset = %v", rec.GMTOffset)
	}
	if rec.Fax != nil {
		t.Errorf("Fax = %v, want nil", *rec.Fax)
	}
	if rec.URL == nil || *rec.URL != "http://www.flyspi.com" {
		t.Errorf("URL = %v", rec.URL)
	}
}

func TestSchemaMap_CountMismatch(t *testing.T) {
	schema := DefaultSchema()

	for _, n := range []int{0, 15, 17} {
		raw := make([]*string, n)
		_, err := schema.Map(raw)
		if err == nil {
			t.Fatalf("Map with %d values succeeded, want mapping error", n)
		}
		var herr *HarvestError
		if !errors.As(err, &herr) || herr.Code != ErrCodeMapping {
			t.Errorf("Map with %d values returned %v, want %s", n, err, ErrCodeMapping)
		}
	}
}

func TestSchemaMap_GarbageNumericsCoerceToNull(t *testing.T) {
	schema := DefaultSchema()
	raw := make([]*string, len(schema))
	raw[0] = strp("SPI")
	raw[1] = strp("Abraham Lincoln Capital")
	raw[2] = strp("not a number")
	raw[10] = strp("forty-one")

	rec, err := schema.Map(raw)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if rec.RunwayLength != nil {
		t.Errorf("RunwayLength = %v, want nil", *rec.RunwayLength)
	}
	if rec.WorldAreaCode != nil {
		t.Errorf("WorldAreaCode = %v, want nil", *rec.WorldAreaCode)
	}
}

func TestAirportRecord_JSONNullsAndKeyOrder(t *testing.T) {
	rec := AirportRecord{AirportCode: "SPI", AirportName: "Abraham Lincoln Capital"}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	s := string(out)
	if !strings.Contains(s, `"runwayLength":null`) {
		t.Errorf("missing fields must serialize as null, got %s", s)
	}
	if !strings.HasPrefix(s, `{"airportCode":"SPI","airportName":"Abraham Lincoln Capital"`) {
		t.Errorf("key order must follow the schema, got %s", s)
	}

	var keys map[string]any
	if err := json.Unmarshal(out, &keys); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 16 {
		t.Errorf("record serializes %d keys, want 16", len(keys))
	}
}
