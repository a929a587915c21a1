package ports

import (
	"context"
	"geo-route-service/internal/domain"
)

// Contract for building routable street networks from an external map source.
// networkType is passed through verbatim; providers reject types they do not know.
type NetworkProvider interface {
	GraphFromBBox(ctx context.Context, bbox domain.BoundingBox, networkType string) (*domain.NetworkGraph, error)
	GraphFromPoint(ctx context.Context, center domain.GeoPoint, dist float64, networkType string) (*domain.NetworkGraph, error)
}

// Contract for the graph searches the route planner composes.
type PathFinder interface {
	// Return the node closest to p.
	NearestNode(g *domain.NetworkGraph, p domain.GeoPoint) (domain.NodeID, error)
	// Return the minimum-weight path from src to dst, or an error wrapping domain.ErrNoRoute.
	ShortestPath(g *domain.NetworkGraph, src, dst domain.NodeID, weight string) (domain.Route, error)
}
