package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/httpx"
)

func newTestGeocoder(t *testing.T, h http.HandlerFunc) *NominatimGeocoder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewNominatimGeocoder(srv.URL, httpx.New("nominatim", "geo-route-test", time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}

func TestLookupParsesFirstResult(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Kigamboni Ferry Terminal" || q.Get("format") != "json" || q.Get("limit") != "1" {
			t.Errorf("unexpected query %v", q)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		w.Write([]byte(`[{"lat":"-6.82186645","lon":"39.301757704855774","display_name":"Kigamboni Ferry Terminal",
			"boundingbox":["-6.8221","-6.8216","39.3014","39.3021"]}]`))
	})

	res, err := g.Lookup(context.Background(), "Kigamboni Ferry Terminal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.GeoPoint{Lat: -6.82186645, Lon: 39.301757704855774}
	if res.Point != want {
		t.Fatalf("point = %+v, want %+v", res.Point, want)
	}
	if res.BoundingBox == nil {
		t.Fatal("expected bounding box")
	}
	if res.BoundingBox.South != -6.8221 || res.BoundingBox.East != 39.3021 {
		t.Fatalf("bbox = %+v", *res.BoundingBox)
	}
}

func TestLookupEmptyResultIsNotFound(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := g.Lookup(context.Background(), "Nowhere At All")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupUpstreamError(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := g.Lookup(context.Background(), "Dar es Salaam")
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 status error, got %v", err)
	}
}

func TestLookupRejectsOutOfRangeCoordinates(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"123","lon":"0"}]`))
	})

	_, err := g.Lookup(context.Background(), "Broken")
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}
