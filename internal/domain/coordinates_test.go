package domain

import (
	"errors"
	"math"
	"testing"
)

func TestParseGeoPoint(t *testing.T) {
	tests := []struct {
		in      string
		want    GeoPoint
		wantErr bool
	}{
		{in: "-6.8096036,39.2854829", want: GeoPoint{Lat: -6.8096036, Lon: 39.2854829}},
		{in: " 10 , 20 ", want: GeoPoint{Lat: 10, Lon: 20}},
		{in: "91,0", wantErr: true},
		{in: "0,181", wantErr: true},
		{in: "abc,1", wantErr: true},
		{in: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGeoPoint(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCoordinate) {
					t.Fatalf("err = %v, want ErrInvalidCoordinate", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGeoPointValidRejectsNaN(t *testing.T) {
	if (GeoPoint{Lat: math.NaN(), Lon: 0}).Valid() {
		t.Fatal("NaN latitude must be invalid")
	}
	if !(GeoPoint{Lat: 0, Lon: 0}).Valid() {
		t.Fatal("null island is a valid coordinate")
	}
}

func TestGeoPointStringRoundTrip(t *testing.T) {
	p := GeoPoint{Lat: -6.82186645, Lon: 39.301757704855774}
	got, err := ParseGeoPoint(p.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != p {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestBoundingBoxOf(t *testing.T) {
	bb, err := BoundingBoxOf([]GeoPoint{
		{Lat: -6.8096036, Lon: 39.2854829},
		{Lat: -6.867255, Lon: 39.310245},
		{Lat: -6.7870493, Lon: 39.2044721},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := BoundingBox{North: -6.7870493, South: -6.867255, East: 39.310245, West: 39.2044721}
	if bb != want {
		t.Fatalf("got %+v, want %+v", bb, want)
	}

	if _, err := BoundingBoxOf(nil); err == nil {
		t.Fatal("expected error for empty point set")
	}
}

func TestResultLegacyDistance(t *testing.T) {
	if got := LegacyDistance(Fail[float64](ErrNoRoute)); got != -1 {
		t.Fatalf("failed legacy distance = %v, want -1", got)
	}
	if got := LegacyDistance(Ok(12.5)); got != 12.5 {
		t.Fatalf("ok legacy distance = %v, want 12.5", got)
	}

	r := Fail[int](nil)
	if r.OK() || r.Err == nil {
		t.Fatal("Fail(nil) must still carry a cause")
	}
}

func TestParseDistanceKind(t *testing.T) {
	if k, err := ParseDistanceKind("Great_Circle"); err != nil || k != DistanceGreatCircle {
		t.Fatalf("got %q, %v", k, err)
	}
	if _, err := ParseDistanceKind("manhattan"); !errors.Is(err, ErrUnknownDistanceKind) {
		t.Fatalf("err = %v, want ErrUnknownDistanceKind", err)
	}
}
