package pathing

import (
	"errors"
	"testing"

	"geo-route-service/internal/domain"
)

// grid builds
//
//	1 --100-- 2 --100-- 3
//	 \                 /
//	  ------ 500 ------
//
// with travel times favouring the direct 1->3 edge.
func grid(t *testing.T) *domain.NetworkGraph {
	t.Helper()

	g := domain.NewNetworkGraph("drive")
	g.AddNode(domain.Node{ID: 1, Point: domain.GeoPoint{Lat: 0, Lon: 0}})
	g.AddNode(domain.Node{ID: 2, Point: domain.GeoPoint{Lat: 0, Lon: 0.001}})
	g.AddNode(domain.Node{ID: 3, Point: domain.GeoPoint{Lat: 0, Lon: 0.002}})
	g.AddNode(domain.Node{ID: 9, Point: domain.GeoPoint{Lat: 1, Lon: 1}})

	edges := []domain.Edge{
		{From: 1, To: 2, Length: 100, TravelTime: 50},
		{From: 2, To: 3, Length: 100, TravelTime: 50},
		{From: 1, To: 3, Length: 500, TravelTime: 20},
		{From: 1, To: 3, Length: 450, TravelTime: 30},
		{From: 2, To: 2, Length: 1, TravelTime: 1},
	}
	for _, e := range edges {
		if _, err := g.AddEdge(e); err != nil {
			t.Fatalf("add edge: %v", err)
		}
	}
	return g
}

func TestShortestPathByWeight(t *testing.T) {
	g := grid(t)
	f := NewFinder()

	tests := []struct {
		weight string
		want   domain.Route
	}{
		{domain.WeightLength, domain.Route{1, 2, 3}},
		{domain.WeightTravelTime, domain.Route{1, 3}},
		{domain.WeightTime, domain.Route{1, 3}},
		{"lanes", domain.Route{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.weight, func(t *testing.T) {
			got, err := f.ShortestPath(g, 1, 3, tt.weight)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("route = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("route = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g := grid(t)

	_, err := NewFinder().ShortestPath(g, 3, 1, domain.WeightLength)
	if !errors.Is(err, domain.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}

	_, err = NewFinder().ShortestPath(g, 1, 9, domain.WeightLength)
	if !errors.Is(err, domain.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute for isolated node, got %v", err)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	route, err := NewFinder().ShortestPath(grid(t), 2, 2, domain.WeightLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route) != 1 || route[0] != 2 {
		t.Fatalf("route = %v, want [2]", route)
	}
}

func TestShortestPathErrors(t *testing.T) {
	f := NewFinder()

	if _, err := f.ShortestPath(nil, 1, 2, domain.WeightLength); !errors.Is(err, domain.ErrNilGraph) {
		t.Fatalf("expected ErrNilGraph, got %v", err)
	}
	if _, err := f.ShortestPath(grid(t), 1, 42, domain.WeightLength); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNearestNode(t *testing.T) {
	g := grid(t)
	f := NewFinder()

	id, err := f.NearestNode(g, domain.GeoPoint{Lat: 0.0001, Lon: 0.0012})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 2 {
		t.Fatalf("nearest = %d, want 2", id)
	}

	if _, err := f.NearestNode(domain.NewNetworkGraph("drive"), domain.GeoPoint{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty graph, got %v", err)
	}
	if _, err := f.NearestNode(g, domain.GeoPoint{Lat: 100}); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}
