package services

import (
	"context"
	"errors"
	"testing"

	"geo-route-service/internal/adapters/geocode"
	"geo-route-service/internal/domain"
	"geo-route-service/internal/ports"
)

var ferry = domain.GeoPoint{Lat: -6.82186645, Lon: 39.301757704855774}

func newTestResolver(t *testing.T, c ports.GeocodeCache) (*Resolver, *geocode.MockGeocoder) {
	t.Helper()

	g := geocode.NewMockGeocoder(map[string]ports.GeocodeResult{
		"Kigamboni Ferry Terminal": {Point: ferry},
		"Dar es Salaam": {
			Point:       domain.GeoPoint{Lat: -6.8, Lon: 39.28},
			BoundingBox: &domain.BoundingBox{North: -6.7, South: -6.9, East: 39.4, West: 39.1},
		},
	})
	r, err := NewResolver(g, c, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r, g
}

func TestResolverGeocodeKnownPlace(t *testing.T) {
	r, g := newTestResolver(t, nil)

	res := r.Geocode(context.Background(), "  Kigamboni   Ferry Terminal ")
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if res.Value != ferry {
		t.Fatalf("point = %+v, want %+v", res.Value, ferry)
	}

	r.Geocode(context.Background(), "Kigamboni Ferry Terminal")
	if n := g.Calls("Kigamboni Ferry Terminal"); n != 1 {
		t.Fatalf("geocoder calls = %d, want 1 (memoized)", n)
	}
}

func TestResolverFailuresAreNotMemoized(t *testing.T) {
	r, g := newTestResolver(t, nil)

	for i := 0; i < 2; i++ {
		res := r.Geocode(context.Background(), "Atlantis")
		if res.OK() {
			t.Fatal("expected failure")
		}
		if !errors.Is(res.Err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", res.Err)
		}
	}
	if n := g.Calls("Atlantis"); n != 2 {
		t.Fatalf("geocoder calls = %d, want 2", n)
	}

	if res := r.Geocode(context.Background(), "   "); res.OK() || !errors.Is(res.Err, domain.ErrEmptyInput) {
		t.Fatalf("expected empty input failure, got %+v", res)
	}
}

func TestResolverUsesPersistentCache(t *testing.T) {
	c := newMemGeocodeCache()
	c.m["Seeded Place"] = domain.GeoPoint{Lat: 1, Lon: 2}
	r, g := newTestResolver(t, c)

	res := r.Geocode(context.Background(), "Seeded Place")
	if !res.OK() || res.Value != (domain.GeoPoint{Lat: 1, Lon: 2}) {
		t.Fatalf("expected cached point, got %+v", res)
	}
	if n := g.Calls("Seeded Place"); n != 0 {
		t.Fatalf("geocoder calls = %d, want 0", n)
	}

	r.Geocode(context.Background(), "Kigamboni Ferry Terminal")
	if c.m["Kigamboni Ferry Terminal"] != ferry {
		t.Fatal("fresh result was not written to the persistent cache")
	}
}

func TestResolverSurvivesCacheOutage(t *testing.T) {
	c := newMemGeocodeCache()
	c.fail = true
	r, _ := newTestResolver(t, c)

	res := r.Geocode(context.Background(), "Kigamboni Ferry Terminal")
	if !res.OK() || res.Value != ferry {
		t.Fatalf("expected geocoder fallback, got %+v", res)
	}
}

func TestResolverLookupKeepsExtent(t *testing.T) {
	r, _ := newTestResolver(t, nil)

	res := r.Lookup(context.Background(), "Dar es Salaam")
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if res.Value.BoundingBox == nil || res.Value.BoundingBox.North != -6.7 {
		t.Fatalf("bbox = %+v", res.Value.BoundingBox)
	}
}
