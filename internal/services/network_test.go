package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/geodesy"
)

func newTestNetwork(t *testing.T, f *fakeNetwork) *NetworkService {
	t.Helper()
	r, _ := newTestResolver(t, nil)
	s, err := NewNetworkService(f, r, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestGraphByAddress(t *testing.T) {
	f := &fakeNetwork{graph: darGraph()}
	s := newTestNetwork(t, f)

	res := s.Graph(context.Background(), "Kigamboni Ferry Terminal", "drive", QueryAddress)
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if len(f.pointCalls) != 1 {
		t.Fatalf("point calls = %d, want 1", len(f.pointCalls))
	}
	call := f.pointCalls[0]
	if call.center != ferry || call.dist != DefaultAddressDistance || call.networkType != "drive" {
		t.Fatalf("call = %+v", call)
	}
}

func TestGraphByPlaceUsesExtent(t *testing.T) {
	f := &fakeNetwork{graph: darGraph()}
	s := newTestNetwork(t, f)

	res := s.Graph(context.Background(), "Dar es Salaam", "walk", QueryPlace)
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if len(f.bboxCalls) != 1 || f.bboxCalls[0].North != -6.7 {
		t.Fatalf("bbox calls = %+v", f.bboxCalls)
	}

	// Kigamboni has no extent in the fake geocoder.
	res = s.Graph(context.Background(), "Kigamboni Ferry Terminal", "walk", QueryPlace)
	if res.OK() || !errors.Is(res.Err, domain.ErrNotFound) {
		t.Fatalf("expected not-found failure, got %+v", res.Err)
	}
}

func TestGraphUnresolvableAddressFails(t *testing.T) {
	f := &fakeNetwork{graph: darGraph()}
	s := newTestNetwork(t, f)

	res := s.Graph(context.Background(), "Atlantis", "drive", QueryAddress)
	if res.OK() {
		t.Fatal("expected failure")
	}
	if f.calls() != 0 {
		t.Fatalf("provider should not be called, got %d calls", f.calls())
	}
}

func TestGraphFromPointsStrategies(t *testing.T) {
	points := []domain.GeoPoint{darOrigin, darDestination, ferry}

	t.Run("points", func(t *testing.T) {
		f := &fakeNetwork{graph: darGraph()}
		s := newTestNetwork(t, f)

		if res := s.GraphFromPoints(context.Background(), points, StrategyPoints, "drive"); !res.OK() {
			t.Fatalf("unexpected failure: %v", res.Err)
		}
		center, _ := geodesy.Centroid(points)
		want := geodesy.MaxRadius(center, points)
		call := f.pointCalls[0]
		if call.center != center || math.Abs(call.dist-want) > 1e-9 {
			t.Fatalf("call = %+v, want center %+v dist %v", call, center, want)
		}
	})

	t.Run("bbox", func(t *testing.T) {
		f := &fakeNetwork{graph: darGraph()}
		s := newTestNetwork(t, f)

		if res := s.GraphFromPoints(context.Background(), points, StrategyBBox, "drive"); !res.OK() {
			t.Fatalf("unexpected failure: %v", res.Err)
		}
		want, _ := domain.BoundingBoxOf(points)
		if f.bboxCalls[0] != want {
			t.Fatalf("bbox = %+v, want %+v", f.bboxCalls[0], want)
		}
	})

	t.Run("empty", func(t *testing.T) {
		s := newTestNetwork(t, &fakeNetwork{graph: darGraph()})
		res := s.GraphFromPoints(context.Background(), nil, StrategyPoints, "drive")
		if res.OK() || !errors.Is(res.Err, domain.ErrEmptyInput) {
			t.Fatalf("expected empty input failure, got %+v", res.Err)
		}
	})
}

func TestGraphProviderFailureAndMemo(t *testing.T) {
	f := &fakeNetwork{err: errors.New("overpass unavailable")}
	s := newTestNetwork(t, f)

	res := s.GraphFromPoint(context.Background(), ferry, 500, "drive")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if v := res.ValueOr(nil); v != nil {
		t.Fatal("failed result must not carry a graph")
	}

	f.err = nil
	f.graph = darGraph()
	s.GraphFromPoint(context.Background(), ferry, 500, "drive")
	s.GraphFromPoint(context.Background(), ferry, 500, "drive")
	if f.calls() != 2 {
		t.Fatalf("provider calls = %d, want 2 (failure retried, success memoized)", f.calls())
	}
}

func TestParseKinds(t *testing.T) {
	if k, err := ParseQueryKind(""); err != nil || k != QueryAddress {
		t.Fatalf("default kind = %q, %v", k, err)
	}
	if _, err := ParseQueryKind("polygon"); err == nil {
		t.Fatal("expected error")
	}
	if k, err := ParsePointStrategy("BBOX"); err != nil || k != StrategyBBox {
		t.Fatalf("strategy = %q, %v", k, err)
	}
	if _, err := ParsePointStrategy("hull"); err == nil {
		t.Fatal("expected error")
	}
}

func TestGraphNilFromProviderIsNotMemoized(t *testing.T) {
	f := &fakeNetwork{}
	s := newTestNetwork(t, f)

	res := s.GraphFromPoint(context.Background(), ferry, 500, "drive")
	if res.OK() || !errors.Is(res.Err, domain.ErrNilGraph) {
		t.Fatalf("expected nil graph failure, got %+v", res.Err)
	}

	f.graph = darGraph()
	if res := s.GraphFromPoint(context.Background(), ferry, 500, "drive"); !res.OK() {
		t.Fatalf("unexpected failure after provider recovered: %v", res.Err)
	}
	if f.calls() != 2 {
		t.Fatalf("provider calls = %d, want 2", f.calls())
	}
}
