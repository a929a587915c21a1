package services

import (
	"context"
	"fmt"
	"log"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/memo"
	"geo-route-service/internal/platform/obs"
	"geo-route-service/internal/ports"
)

// Resolver turns place names into points. Lookups go through a bounded in-process memo, then
// the optional persistent cache, then the geocoder. The geocoder is tried once per call.
type Resolver struct {
	geocoder ports.Geocoder
	cache    ports.GeocodeCache
	points   *memo.Memo[string, domain.GeoPoint]
	results  *memo.Memo[string, ports.GeocodeResult]
}

// NewResolver builds a resolver; c may be nil to disable persistent caching.
func NewResolver(g ports.Geocoder, c ports.GeocodeCache, memoSize int) (*Resolver, error) {
	if g == nil {
		return nil, fmt.Errorf("new resolver: geocoder is nil")
	}
	points, err := memo.New[string, domain.GeoPoint]("geocode_point", memoSize)
	if err != nil {
		return nil, fmt.Errorf("new resolver: %w", err)
	}
	results, err := memo.New[string, ports.GeocodeResult]("geocode_result", memoSize)
	if err != nil {
		return nil, fmt.Errorf("new resolver: %w", err)
	}
	return &Resolver{geocoder: g, cache: c, points: points, results: results}, nil
}

// Geocode resolves place to a point, or a failed result when the place is unknown or the
// geocoder is unreachable.
func (r *Resolver) Geocode(ctx context.Context, place string) domain.Result[domain.GeoPoint] {
	key := domain.NormalizePlace(place)
	if key == "" {
		return degrade[domain.GeoPoint](ctx, "geocode", fmt.Errorf("geocode: %w: empty place", domain.ErrEmptyInput))
	}

	if p, ok := r.points.Get(key); ok {
		return domain.Ok(p)
	}

	if r.cache != nil {
		hits, err := r.cache.GetMany(ctx, []string{key})
		if err != nil {
			log.Printf("req_id=%s geocode cache read failed place=%q err=%v", obs.RequestID(ctx), key, err)
		}
		p, ok := hits[key]
		obs.Lookup("geocode_store", ok)
		if ok {
			r.points.Add(key, p)
			return domain.Ok(p)
		}
	}

	res := r.Lookup(ctx, key)
	if !res.OK() {
		return domain.Fail[domain.GeoPoint](res.Err)
	}

	p := res.Value.Point
	r.points.Add(key, p)
	if r.cache != nil {
		if err := r.cache.PutMany(ctx, map[string]domain.GeoPoint{key: p}); err != nil {
			log.Printf("req_id=%s geocode cache write failed place=%q err=%v", obs.RequestID(ctx), key, err)
		}
	}
	return domain.Ok(p)
}

// Lookup returns the geocoder's full answer, including the place extent when the provider
// reports one. It bypasses the persistent cache, which only stores points.
func (r *Resolver) Lookup(ctx context.Context, place string) domain.Result[ports.GeocodeResult] {
	key := domain.NormalizePlace(place)
	if key == "" {
		return degrade[ports.GeocodeResult](ctx, "geocode", fmt.Errorf("geocode: %w: empty place", domain.ErrEmptyInput))
	}

	if v, ok := r.results.Get(key); ok {
		return domain.Ok(v)
	}

	v, err := r.geocoder.Lookup(ctx, key)
	if err != nil {
		return degrade[ports.GeocodeResult](ctx, "geocode", fmt.Errorf("geocode %q: %w", key, err))
	}

	r.results.Add(key, v)
	return domain.Ok(v)
}
