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

// SQLRouteCache is a Postgres-backed cache for origin->destination remote route results.
type SQLRouteCache struct {
	DB *sql.DB
}

var _ ports.RouteCache = (*SQLRouteCache)(nil)

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Fetch cached routes for one origin and multiple destinations.
func (s *SQLRouteCache) GetMany(
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

	q := `
	SELECT destination, distance_meters, duration_seconds
    FROM route_cache
    WHERE origin = $1 
        AND destination = ANY($2::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, origin, uniq)
	if err != nil {
		return nil, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}
	defer rows.Close()

	return scanRoutes(rows, len(uniq))
}

// Store many cached route results for a single origin.
func (s *SQLRouteCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]domain.RemoteRoute,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	return putRoutes(ctx, s.DB, `
	INSERT INTO route_cache (origin, destination, distance_meters, duration_seconds)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`, origin, results)
}
