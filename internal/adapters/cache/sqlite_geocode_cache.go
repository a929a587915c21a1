package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/obs"
	"geo-route-service/internal/ports"
)

// SQLite backed cache mapping place names to geographic coordinates.
// Place keys are expected to be normalized by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

var _ ports.GeocodeCache = (*SqliteGeocodeCache)(nil)

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// Fetch cached coordinates for the given places.
func (s *SqliteGeocodeCache) GetMany(ctx context.Context, places []string) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := dedupe(places)
	if len(uniq) == 0 {
		return map[string]domain.GeoPoint{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, p := range uniq {
		args = append(args, p)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT 
        place,
        lat,
        lon
    FROM geocode_cache
    WHERE place IN (%s);
	`, placeholders(len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows, len(uniq))
}

// Store place -> coordinate mappings in the cache.
func (s *SqliteGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeoPoint) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	return putPoints(ctx, s.DB, `
	INSERT OR REPLACE INTO geocode_cache (
        place,
        lat,
        lon
    )
    VALUES (?, ?, ?);
	`, results)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
