// Package pathing implements node snapping and weighted shortest paths over a NetworkGraph.
package pathing

import (
	"fmt"
	"math"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/geodesy"
	"geo-route-service/internal/ports"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

type Finder struct{}

var _ ports.PathFinder = Finder{}

func NewFinder() Finder { return Finder{} }

// NearestNode returns the node with the smallest great-circle distance to p. Ties go to the
// lower node ID.
func (Finder) NearestNode(g *domain.NetworkGraph, p domain.GeoPoint) (domain.NodeID, error) {
	if g == nil {
		return 0, fmt.Errorf("nearest node: %w", domain.ErrNilGraph)
	}
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("nearest node: %w", err)
	}

	best := domain.NodeID(0)
	bestDist := math.Inf(1)
	for _, n := range g.Nodes() {
		if d := geodesy.SegmentLength(p, n.Point); d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	if math.IsInf(bestDist, 1) {
		return 0, fmt.Errorf("nearest node: %w: graph has no nodes", domain.ErrNotFound)
	}
	return best, nil
}

// ShortestPath runs Dijkstra over g weighted by the named edge attribute. Parallel edges
// contribute their minimum weight; unknown attributes weigh 1 per edge.
func (Finder) ShortestPath(g *domain.NetworkGraph, src, dst domain.NodeID, weight string) (domain.Route, error) {
	if g == nil {
		return nil, fmt.Errorf("shortest path: %w", domain.ErrNilGraph)
	}
	if _, ok := g.Node(src); !ok {
		return nil, fmt.Errorf("shortest path: source %d: %w", src, domain.ErrNotFound)
	}
	if _, ok := g.Node(dst); !ok {
		return nil, fmt.Errorf("shortest path: target %d: %w", dst, domain.ErrNotFound)
	}
	if src == dst {
		return domain.Route{src}, nil
	}

	wg := weighted(g, weight)

	nodes, _ := path.DijkstraFrom(simple.Node(int64(src)), wg).To(int64(dst))
	if len(nodes) == 0 {
		return nil, fmt.Errorf("shortest path %d->%d: %w", src, dst, domain.ErrNoRoute)
	}

	route := make(domain.Route, len(nodes))
	for i, n := range nodes {
		route[i] = domain.NodeID(n.ID())
	}
	return route, nil
}

// weighted projects g onto a simple weighted digraph, collapsing parallel edges to the
// cheapest one and dropping self-loops, which never lie on a shortest path.
func weighted(g *domain.NetworkGraph, weight string) *simple.WeightedDirectedGraph {
	wg := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for _, n := range g.Nodes() {
		wg.AddNode(simple.Node(int64(n.ID)))
	}

	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		w := e.Weight(weight)
		if existing, ok := wg.Weight(int64(e.From), int64(e.To)); ok && existing <= w {
			continue
		}
		wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(int64(e.From)), simple.Node(int64(e.To)), w))
	}
	return wg
}
