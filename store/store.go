// Package store persists harvested airport records to SQLite, so repeated
// harvests can be diffed and served without re-crawling the site.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/use-agent/aeroharvest/models"
)

// Store wraps the SQLite database holding harvested records.
type Store struct {
	db *sql.DB
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS airports (
	airport_code     TEXT PRIMARY KEY,
	airport_name     TEXT NOT NULL,
	runway_length    REAL,
	runway_elevation REAL,
	city             TEXT,
	country          TEXT,
	country_abbr     TEXT,
	airport_guide    TEXT,
	longitude        REAL,
	latitude         REAL,
	world_area_code  INTEGER,
	gmt_offset       INTEGER,
	telephone        TEXT,
	fax              TEXT,
	email            TEXT,
	url              TEXT,
	harvested_at     INTEGER NOT NULL
);
`

// Open opens or creates the database at path and ensures the schema.
// WAL mode keeps concurrent readers cheap while a harvest writes.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRecords upserts all records in one transaction, keyed by airport
// code. A failed transaction leaves the previous harvest intact.
func (s *Store) SaveRecords(ctx context.Context, records []models.AirportRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO airports (
			airport_code, airport_name, runway_length, runway_elevation,
			city, country, country_abbr, airport_guide,
			longitude, latitude, world_area_code, gmt_offset,
			telephone, fax, email, url, harvested_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(airport_code) DO UPDATE SET
			airport_name = excluded.airport_name,
			runway_length = excluded.runway_length,
			runway_elevation = excluded.runway_elevation,
			city = excluded.city,
			country = excluded.country,
			country_abbr = excluded.country_abbr,
			airport_guide = excluded.airport_guide,
			longitude = excluded.longitude,
			latitude = excluded.latitude,
			world_area_code = excluded.world_area_code,
			gmt_offset = excluded.gmt_offset,
			telephone = excluded.telephone,
			fax = excluded.fax,
			email = excluded.email,
			url = excluded.url,
			harvested_at = excluded.harvested_at`)
	if err != nil {
		return fmt.Errorf("store: prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.AirportCode, rec.AirportName, rec.RunwayLength, rec.RunwayElevation,
			rec.City, rec.Country, rec.CountryAbbr, rec.AirportGuide,
			rec.Longitude, rec.Latitude, rec.WorldAreaCode, rec.GMTOffset,
			rec.Telephone, rec.Fax, rec.Email, rec.URL, now,
		); err != nil {
			return fmt.Errorf("store: upsert %s: %w", rec.AirportCode, err)
		}
	}

	return tx.Commit()
}

// Records returns all stored records ordered by airport code.
func (s *Store) Records(ctx context.Context) ([]models.AirportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT airport_code, airport_name, runway_length, runway_elevation,
			city, country, country_abbr, airport_guide,
			longitude, latitude, world_area_code, gmt_offset,
			telephone, fax, email, url
		FROM airports ORDER BY airport_code`)
	if err != nil {
		return nil, fmt.Errorf("store: query records: %w", err)
	}
	defer rows.Close()

	var records []models.AirportRecord
	for rows.Next() {
		var rec models.AirportRecord
		if err := rows.Scan(
			&rec.AirportCode, &rec.AirportName, &rec.RunwayLength, &rec.RunwayElevation,
			&rec.City, &rec.Country, &rec.CountryAbbr, &rec.AirportGuide,
			&rec.Longitude, &rec.Latitude, &rec.WorldAreaCode, &rec.GMTOffset,
			&rec.Telephone, &rec.Fax, &rec.Email, &rec.URL,
		); err != nil {
			return nil, fmt.Errorf("store: scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM airports").Scan(&n)
	return n, err
}
