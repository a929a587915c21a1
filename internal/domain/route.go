package domain

import (
	"fmt"
	"strings"
	"time"
)

// Ordered node identifiers from the origin's nearest node to the destination's nearest node.
// An empty Route means no path.
type Route []NodeID

// Graph and the route computed over it. The route is only meaningful against this graph.
type RoutedGraph struct {
	Graph *NetworkGraph
	Route Route
}

// Length sums the physical length of consecutive route pairs. For each pair it measures the
// parallel edge with the smallest weight under key, the same edge a shortest-path search over
// key traverses. It fails if a pair is not connected in g.
func (r Route) Length(g *NetworkGraph, key string) (float64, error) {
	if g == nil {
		return 0, ErrNilGraph
	}
	total := 0.0
	for i := 0; i+1 < len(r); i++ {
		e, ok := g.MinEdge(r[i], r[i+1], key)
		if !ok {
			return 0, fmt.Errorf("route length: no edge %d->%d", r[i], r[i+1])
		}
		total += e.Length
	}
	return total, nil
}

// Points resolves route nodes to coordinates.
func (r Route) Points(g *NetworkGraph) []GeoPoint {
	out := make([]GeoPoint, 0, len(r))
	for _, id := range r {
		if n, ok := g.Node(id); ok {
			out = append(out, n.Point)
		}
	}
	return out
}

// Server-computed route summary from a remote routing service.
type RemoteRoute struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Sidecar record written next to a persisted graph.
type GraphMetadata struct {
	GraphName   string    `json:"graph_name"`
	NetworkType string    `json:"network_type"`
	FilePath    string    `json:"file_path"`
	DateCreated time.Time `json:"date_created"`
}

type DistanceKind string

const (
	DistanceEuclidean   DistanceKind = "euclidean"
	DistanceGreatCircle DistanceKind = "great_circle"
)

// ParseDistanceKind accepts "euclidean" and "great_circle" (case-insensitive).
func ParseDistanceKind(s string) (DistanceKind, error) {
	switch k := DistanceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case DistanceEuclidean, DistanceGreatCircle:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDistanceKind, s)
	}
}
