package cache

import (
	"context"
	"os"
	"testing"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/db"
)

// Runs against a real Postgres only when TEST_DATABASE_URL is set.
func TestPostgresCaches(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.OpenPostgres(url)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer conn.Close()

	if err := InitSchema(ctx, conn, Postgres); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	geo := NewSQLGeocodeCache(conn)
	p := domain.GeoPoint{Lat: -6.82186645, Lon: 39.301757704855774}
	if err := geo.PutMany(ctx, map[string]domain.GeoPoint{"test:ferry": p}); err != nil {
		t.Fatalf("put geocode: %v", err)
	}
	got, err := geo.GetMany(ctx, []string{"test:ferry"})
	if err != nil || got["test:ferry"] != p {
		t.Fatalf("geocode round trip: %+v, %v", got, err)
	}

	routes := NewSQLRouteCache(conn)
	r := domain.RemoteRoute{DistanceMeters: 10, DurationSeconds: 2}
	if err := routes.PutMany(ctx, "test:o", map[string]domain.RemoteRoute{"test:d": r}); err != nil {
		t.Fatalf("put route: %v", err)
	}
	gotR, err := routes.GetMany(ctx, "test:o", []string{"test:d"})
	if err != nil || gotR["test:d"] != r {
		t.Fatalf("route round trip: %+v, %v", gotR, err)
	}
}
