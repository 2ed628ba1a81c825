package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/use-agent/aeroharvest/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "airports.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(code string) models.AirportRecord {
	name := "Test Field"
	city := "Springfield"
	length := 7999.0
	wac := 41
	return models.AirportRecord{
		AirportCode:   code,
		AirportName:   name,
		City:          &city,
		RunwayLength:  &length,
		WorldAreaCode: &wac,
	}
}

func TestStore_SaveAndReadBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := []models.AirportRecord{sampleRecord("AAA"), sampleRecord("BBB")}
	if err := s.SaveRecords(ctx, records); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	got, err := s.Records(ctx)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].AirportCode != "AAA" || got[1].AirportCode != "BBB" {
		t.Errorf("order = %s, %s", got[0].AirportCode, got[1].AirportCode)
	}
	if got[0].City == nil || *got[0].City != "Springfield" {
		t.Errorf("City = %v", got[0].City)
	}
	if got[0].RunwayLength == nil || *got[0].RunwayLength != 7999 {
		t.Errorf("RunwayLength = %v", got[0].RunwayLength)
	}
	if got[0].Fax != nil {
		t.Errorf("Fax = %v, want nil round-trip", *got[0].Fax)
	}
}

func TestStore_UpsertByCode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("AAA")
	if err := s.SaveRecords(ctx, []models.AirportRecord{rec}); err != nil {
		t.Fatal(err)
	}

	rec.AirportName = "Renamed Field"
	if err := s.SaveRecords(ctx, []models.AirportRecord{rec}); err != nil {
		t.Fatal(err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1 after re-harvest", n)
	}

	got, err := s.Records(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].AirportName != "Renamed Field" {
		t.Errorf("AirportName = %q, want updated value", got[0].AirportName)
	}
}

func TestStore_EmptySave(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveRecords(context.Background(), nil); err != nil {
		t.Fatalf("empty save failed: %v", err)
	}
}
