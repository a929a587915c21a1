package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/ports"
)

// Dialect selects the DDL flavour for InitSchema.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

var schemas = map[Dialect][]string{
	SQLite: {
		`
	CREATE TABLE IF NOT EXISTS route_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters REAL NOT NULL,
        duration_seconds REAL NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        place TEXT PRIMARY KEY,
        lat REAL NOT NULL,
        lon REAL NOT NULL
    );
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_route_cache_destination_origin
    ON route_cache(destination, origin);
	`,
	},
	Postgres: {
		`
	CREATE TABLE IF NOT EXISTS route_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters DOUBLE PRECISION NOT NULL,
        duration_seconds DOUBLE PRECISION NOT NULL,
        PRIMARY KEY (origin, destination)
    );
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        place TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL
    );
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_route_cache_destination_origin
    ON route_cache(destination, origin);
	`,
	},
}

// Initialize the cache tables.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	statements, ok := schemas[dialect]
	if !ok {
		return fmt.Errorf("init schema: unknown dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlaceSeed struct {
	Place string  `json:"place"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// SeedGeocodeFromJSON loads known place coordinates from a JSON file into any geocode cache.
// Place names are stored in the same normalized form the resolver looks them up with.
func SeedGeocodeFromJSON(ctx context.Context, c ports.GeocodeCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed places: parse json: %w", err)
	}

	rows := make(map[string]domain.GeoPoint, len(data))
	for i, item := range data {
		place := domain.NormalizePlace(item.Place)
		if place == "" {
			return 0, fmt.Errorf("seed places: item at index %d: place cannot be empty", i+1)
		}

		p := domain.NewGeoPoint(item.Lat, item.Lon)
		if err := p.Validate(); err != nil {
			return 0, fmt.Errorf("seed places: item %q: %w", item.Place, err)
		}
		rows[place] = p
	}

	if err := c.PutMany(ctx, rows); err != nil {
		return 0, fmt.Errorf("seed places: %w", err)
	}

	return len(rows), nil
}
