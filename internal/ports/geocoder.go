package ports

import (
	"context"
	"geo-route-service/internal/domain"
)

// Resolved place: the best-match point and, when the provider reports one, its extent.
type GeocodeResult struct {
	Point       domain.GeoPoint
	BoundingBox *domain.BoundingBox
	DisplayName string
}

// Contract for resolving free-text place names.
type Geocoder interface {
	// Return the best match for query, or an error wrapping domain.ErrNotFound.
	Lookup(ctx context.Context, query string) (GeocodeResult, error)
}

// Persistent place -> point cache. Keys are normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, places []string) (map[string]domain.GeoPoint, error)
	PutMany(ctx context.Context, results map[string]domain.GeoPoint) error
}
