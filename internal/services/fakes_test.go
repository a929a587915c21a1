package services

import (
	"context"
	"errors"
	"sync"

	"geo-route-service/internal/domain"
)

type pointCall struct {
	center      domain.GeoPoint
	dist        float64
	networkType string
}

// fakeNetwork serves one fixed graph and records every request.
type fakeNetwork struct {
	mu         sync.Mutex
	graph      *domain.NetworkGraph
	err        error
	pointCalls []pointCall
	bboxCalls  []domain.BoundingBox
}

func (f *fakeNetwork) GraphFromBBox(ctx context.Context, bbox domain.BoundingBox, networkType string) (*domain.NetworkGraph, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bboxCalls = append(f.bboxCalls, bbox)
	return f.graph, f.err
}

func (f *fakeNetwork) GraphFromPoint(ctx context.Context, center domain.GeoPoint, dist float64, networkType string) (*domain.NetworkGraph, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointCalls = append(f.pointCalls, pointCall{center: center, dist: dist, networkType: networkType})
	return f.graph, f.err
}

func (f *fakeNetwork) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pointCalls) + len(f.bboxCalls)
}

type memGeocodeCache struct {
	mu   sync.Mutex
	m    map[string]domain.GeoPoint
	fail bool
}

func newMemGeocodeCache() *memGeocodeCache {
	return &memGeocodeCache{m: map[string]domain.GeoPoint{}}
}

func (c *memGeocodeCache) GetMany(ctx context.Context, places []string) (map[string]domain.GeoPoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, errors.New("cache down")
	}
	out := map[string]domain.GeoPoint{}
	for _, p := range places {
		if v, ok := c.m[p]; ok {
			out[p] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeoPoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache down")
	}
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

type memRouteCache struct {
	mu sync.Mutex
	m  map[string]domain.RemoteRoute
}

func newMemRouteCache() *memRouteCache {
	return &memRouteCache{m: map[string]domain.RemoteRoute{}}
}

func (c *memRouteCache) GetMany(ctx context.Context, origin string, destinations []string) (map[string]domain.RemoteRoute, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.RemoteRoute{}
	for _, d := range destinations {
		if v, ok := c.m[origin+"|"+d]; ok {
			out[d] = v
		}
	}
	return out, nil
}

func (c *memRouteCache) PutMany(ctx context.Context, origin string, results map[string]domain.RemoteRoute) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for d, v := range results {
		c.m[origin+"|"+d] = v
	}
	return nil
}

var (
	darOrigin      = domain.GeoPoint{Lat: -6.8096036, Lon: 39.2854829}
	darDestination = domain.GeoPoint{Lat: -6.867255, Lon: 39.310245}
)

// darGraph is a small network between darOrigin and darDestination:
//
//	1 -> 2 -> 3   (200 m, 100 s)
//	1 -------> 3  (500 m, 20 s)
//	9             (isolated, next to nothing)
func darGraph() *domain.NetworkGraph {
	g := domain.NewNetworkGraph("drive")
	g.AddNode(domain.Node{ID: 1, Point: darOrigin})
	g.AddNode(domain.Node{ID: 2, Point: domain.GeoPoint{Lat: -6.84, Lon: 39.30}})
	g.AddNode(domain.Node{ID: 3, Point: darDestination})
	g.AddNode(domain.Node{ID: 9, Point: domain.GeoPoint{Lat: -6.70, Lon: 39.10}})

	for _, e := range []domain.Edge{
		{From: 1, To: 2, Length: 100, TravelTime: 50},
		{From: 2, To: 3, Length: 100, TravelTime: 50},
		{From: 1, To: 3, Length: 500, TravelTime: 20},
		{From: 1, To: 3, Length: 650, TravelTime: 25},
	} {
		if _, err := g.AddEdge(e); err != nil {
			panic(err)
		}
	}
	return g
}
