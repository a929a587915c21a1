package services

import (
	"context"
	"fmt"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/geodesy"
	"geo-route-service/internal/platform/memo"
	"geo-route-service/internal/platform/obs"
	"geo-route-service/internal/ports"
)

// minRadius keeps coincident or near-coincident points from requesting an empty area.
const minRadius = 100.0

type routeKey struct {
	origin, destination domain.GeoPoint
	mode, weight        string
}

// RoutePlanner composes geodesy, the network service and a path finder into point-to-point
// road routing.
//
// The graph for a query is centred on the arithmetic midpoint of origin and destination with
// the straight-line distance between them as radius. Road paths that wander beyond that
// circle are not found; the planner reports no route instead of widening the search.
type RoutePlanner struct {
	network *NetworkService
	finder  ports.PathFinder
	routes  *memo.Memo[routeKey, domain.RoutedGraph]
}

func NewRoutePlanner(n *NetworkService, f ports.PathFinder, memoSize int) (*RoutePlanner, error) {
	if n == nil || f == nil {
		return nil, fmt.Errorf("new route planner: network service and path finder are required")
	}
	routes, err := memo.New[routeKey, domain.RoutedGraph]("route", memoSize)
	if err != nil {
		return nil, fmt.Errorf("new route planner: %w", err)
	}
	return &RoutePlanner{network: n, finder: f, routes: routes}, nil
}

// ShortestRoute returns the graph it searched and the minimum-weight node path between the
// nodes nearest to origin and destination. Any failure along the way yields a failed result
// with neither graph nor route.
func (p *RoutePlanner) ShortestRoute(
	ctx context.Context,
	origin, destination domain.GeoPoint,
	mode, weight string,
) (res domain.Result[domain.RoutedGraph]) {
	var err error
	defer obs.Time(ctx, "planner.ShortestRoute")(&err)
	defer func() { err = res.Err }()

	key := routeKey{origin: origin, destination: destination, mode: mode, weight: weight}
	if rg, ok := p.routes.Get(key); ok {
		return domain.Ok(rg)
	}

	radius := geodesy.GreatCircleDistance(origin, destination)
	if !radius.OK() {
		return degrade[domain.RoutedGraph](ctx, "shortest_route", fmt.Errorf("shortest route: %w", radius.Err))
	}
	dist := radius.Value
	if dist < minRadius {
		dist = minRadius
	}

	center := geodesy.Center(origin, destination)
	graph := p.network.GraphFromPoint(ctx, center, dist, mode)
	if !graph.OK() {
		return domain.Fail[domain.RoutedGraph](fmt.Errorf("shortest route: %w", graph.Err))
	}
	g := graph.Value

	src, err := p.finder.NearestNode(g, origin)
	if err != nil {
		return degrade[domain.RoutedGraph](ctx, "shortest_route", fmt.Errorf("shortest route: snap origin: %w", err))
	}
	dst, err := p.finder.NearestNode(g, destination)
	if err != nil {
		return degrade[domain.RoutedGraph](ctx, "shortest_route", fmt.Errorf("shortest route: snap destination: %w", err))
	}

	route, err := p.finder.ShortestPath(g, src, dst, weight)
	if err != nil {
		return degrade[domain.RoutedGraph](ctx, "shortest_route", fmt.Errorf("shortest route: %w", err))
	}

	rg := domain.RoutedGraph{Graph: g, Route: route}
	p.routes.Add(key, rg)
	return domain.Ok(rg)
}

// RoadDistance is the physical length in meters of the shortest route under weight. The
// weight selects the path and, between parallel edges, the edge; the sum uses edge lengths.
func (p *RoutePlanner) RoadDistance(ctx context.Context, origin, destination domain.GeoPoint, mode, weight string) domain.Result[float64] {
	res := p.ShortestRoute(ctx, origin, destination, mode, weight)
	if !res.OK() {
		return domain.Fail[float64](res.Err)
	}

	length, err := res.Value.Route.Length(res.Value.Graph, weight)
	if err != nil {
		return degrade[float64](ctx, "road_distance", fmt.Errorf("road distance: %w", err))
	}
	return domain.Ok(length)
}
