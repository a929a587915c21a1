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

// SQLite backed cache for origin->destination remote route results.
// Keys are domain.GeoPoint.String() values built by the caller.
type SqliteRouteCache struct {
	DB *sql.DB
}

var _ ports.RouteCache = (*SqliteRouteCache)(nil)

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// Fetch cached routes for one origin and multiple destinations.
func (s *SqliteRouteCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]domain.RemoteRoute, err error) {
	defer obs.Time(ctx, "route.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("route cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get route cache: origin must not be empty")
	}

	uniq := dedupe(destinations)
	if len(uniq) == 0 {
		return map[string]domain.RemoteRoute{}, nil
	}

	args := make([]any, 0, 1+len(uniq))
	args = append(args, origin)
	for _, d := range uniq {
		args = append(args, d)
	}

	q := fmt.Sprintf(`
	SELECT 
        destination,
        distance_meters,
        duration_seconds
    FROM route_cache
    WHERE origin = ? 
        AND destination IN (%s);
	`, placeholders(len(uniq)))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}
	defer rows.Close()

	return scanRoutes(rows, len(uniq))
}

// Store many cached route results for a single origin.
func (s *SqliteRouteCache) PutMany(ctx context.Context, origin string, results map[string]domain.RemoteRoute) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	return putRoutes(ctx, s.DB, `
	INSERT OR REPLACE INTO route_cache (
        origin,
        destination,
        distance_meters,
        duration_seconds
    )
    VALUES (?, ?, ?, ?)
	`, origin, results)
}
