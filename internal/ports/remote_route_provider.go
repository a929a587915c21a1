package ports

import (
	"context"
	"geo-route-service/internal/domain"
)

// Contract for server-computed routes that bypass the local graph.
type RemoteRouteProvider interface {
	// Return distance and duration of the first route, or an error wrapping domain.ErrNoRoute.
	Route(ctx context.Context, start, end domain.GeoPoint) (domain.RemoteRoute, error)
}

// Persistent origin -> destination route cache. Keys are domain.GeoPoint.String() values.
type RouteCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]domain.RemoteRoute, error)
	PutMany(ctx context.Context, origin string, results map[string]domain.RemoteRoute) error
}
