package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/obs"
	"geo-route-service/internal/ports"
)

// SQLGeocodeCache is a Postgres-backed cache mapping place names to coordinates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

var _ ports.GeocodeCache = (*SQLGeocodeCache)(nil)

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch cached coordinates for the given places.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	places []string,
) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := dedupe(places)
	if len(uniq) == 0 {
		return map[string]domain.GeoPoint{}, nil
	}

	q := `
	SELECT place, lat, lon
    FROM geocode_cache
    WHERE place = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows, len(uniq))
}

// Store place -> coordinate mappings in the cache.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeoPoint) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	return putPoints(ctx, s.DB, `
	INSERT INTO geocode_cache (place, lat, lon)
    VALUES ($1, $2, $3)
	ON CONFLICT (place) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`, results)
}
