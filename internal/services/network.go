package services

import (
	"context"
	"fmt"
	"strings"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/geodesy"
	"geo-route-service/internal/platform/memo"
	"geo-route-service/internal/ports"
)

// DefaultAddressDistance is the radius in meters fetched around a geocoded address.
const DefaultAddressDistance = 1000.0

// QueryKind selects how a textual graph query is interpreted.
type QueryKind string

const (
	// QueryAddress geocodes the text and fetches DefaultAddressDistance around the point.
	QueryAddress QueryKind = "address"
	// QueryPlace fetches the extent the geocoder reports for the place.
	QueryPlace QueryKind = "place"
)

func ParseQueryKind(s string) (QueryKind, error) {
	switch k := QueryKind(strings.ToLower(strings.TrimSpace(s))); k {
	case QueryAddress, QueryPlace:
		return k, nil
	case "":
		return QueryAddress, nil
	default:
		return "", fmt.Errorf("unknown query kind %q (want address or place)", s)
	}
}

// PointStrategy selects how a point set is turned into a graph request.
type PointStrategy string

const (
	// StrategyPoints requests a radius graph around the centroid, reaching the farthest point.
	StrategyPoints PointStrategy = "points"
	// StrategyBBox requests the box spanning all points.
	StrategyBBox PointStrategy = "bbox"
)

func ParsePointStrategy(s string) (PointStrategy, error) {
	switch k := PointStrategy(strings.ToLower(strings.TrimSpace(s))); k {
	case StrategyPoints, StrategyBBox:
		return k, nil
	case "":
		return StrategyPoints, nil
	default:
		return "", fmt.Errorf("unknown point strategy %q (want points or bbox)", s)
	}
}

// NetworkService obtains street networks from a provider, memoizing graphs by their exact
// request so repeated queries reuse the same graph.
type NetworkService struct {
	provider ports.NetworkProvider
	resolver *Resolver
	graphs   *memo.Memo[string, *domain.NetworkGraph]
}

func NewNetworkService(p ports.NetworkProvider, r *Resolver, memoSize int) (*NetworkService, error) {
	if p == nil {
		return nil, fmt.Errorf("new network service: provider is nil")
	}
	graphs, err := memo.New[string, *domain.NetworkGraph]("graph", memoSize)
	if err != nil {
		return nil, fmt.Errorf("new network service: %w", err)
	}
	return &NetworkService{provider: p, resolver: r, graphs: graphs}, nil
}

// Graph fetches the network for a textual address or place.
func (s *NetworkService) Graph(ctx context.Context, query, networkType string, kind QueryKind) domain.Result[*domain.NetworkGraph] {
	if s.resolver == nil {
		return degrade[*domain.NetworkGraph](ctx, "graph", fmt.Errorf("graph %q: no geocoder configured", query))
	}

	switch kind {
	case QueryAddress:
		p := s.resolver.Geocode(ctx, query)
		if !p.OK() {
			return domain.Fail[*domain.NetworkGraph](fmt.Errorf("graph from address %q: %w", query, p.Err))
		}
		return s.GraphFromPoint(ctx, p.Value, DefaultAddressDistance, networkType)

	case QueryPlace:
		res := s.resolver.Lookup(ctx, query)
		if !res.OK() {
			return domain.Fail[*domain.NetworkGraph](fmt.Errorf("graph from place %q: %w", query, res.Err))
		}
		if res.Value.BoundingBox == nil {
			return degrade[*domain.NetworkGraph](ctx, "graph",
				fmt.Errorf("graph from place %q: %w: geocoder reported no extent", query, domain.ErrNotFound))
		}
		return s.GraphFromBBox(ctx, *res.Value.BoundingBox, networkType)

	default:
		return degrade[*domain.NetworkGraph](ctx, "graph", fmt.Errorf("graph %q: unknown query kind %q", query, kind))
	}
}

func (s *NetworkService) GraphFromBBox(ctx context.Context, bbox domain.BoundingBox, networkType string) domain.Result[*domain.NetworkGraph] {
	key := fmt.Sprintf("bbox|%v|%v|%v|%v|%s", bbox.North, bbox.South, bbox.East, bbox.West, networkType)
	return s.fetch(ctx, key, func() (*domain.NetworkGraph, error) {
		return s.provider.GraphFromBBox(ctx, bbox, networkType)
	})
}

// GraphFromPoint fetches the network within dist meters of center.
func (s *NetworkService) GraphFromPoint(ctx context.Context, center domain.GeoPoint, dist float64, networkType string) domain.Result[*domain.NetworkGraph] {
	key := fmt.Sprintf("point|%s|%v|%s", center, dist, networkType)
	return s.fetch(ctx, key, func() (*domain.NetworkGraph, error) {
		return s.provider.GraphFromPoint(ctx, center, dist, networkType)
	})
}

// GraphFromPoints fetches a network covering every point in the set.
func (s *NetworkService) GraphFromPoints(
	ctx context.Context,
	points []domain.GeoPoint,
	strategy PointStrategy,
	networkType string,
) domain.Result[*domain.NetworkGraph] {
	if len(points) == 0 {
		return degrade[*domain.NetworkGraph](ctx, "graph", fmt.Errorf("graph from points: %w", domain.ErrEmptyInput))
	}
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return degrade[*domain.NetworkGraph](ctx, "graph", fmt.Errorf("graph from points: point %d: %w", i, err))
		}
	}

	switch strategy {
	case StrategyPoints:
		center, err := geodesy.Centroid(points)
		if err != nil {
			return degrade[*domain.NetworkGraph](ctx, "graph", fmt.Errorf("graph from points: %w", err))
		}
		radius := geodesy.MaxRadius(center, points)
		if radius < minRadius {
			radius = minRadius
		}
		return s.GraphFromPoint(ctx, center, radius, networkType)

	case StrategyBBox:
		bbox, err := domain.BoundingBoxOf(points)
		if err != nil {
			return degrade[*domain.NetworkGraph](ctx, "graph", fmt.Errorf("graph from points: %w", err))
		}
		return s.GraphFromBBox(ctx, bbox, networkType)

	default:
		return degrade[*domain.NetworkGraph](ctx, "graph", fmt.Errorf("graph from points: unknown strategy %q", strategy))
	}
}

func (s *NetworkService) fetch(ctx context.Context, key string, get func() (*domain.NetworkGraph, error)) domain.Result[*domain.NetworkGraph] {
	var failed error
	g, ok := s.graphs.Do(key, func() (*domain.NetworkGraph, bool) {
		g, err := get()
		if err == nil && g == nil {
			err = fmt.Errorf("%s: %w", key, domain.ErrNilGraph)
		}
		failed = err
		return g, err == nil
	})
	if !ok {
		return degrade[*domain.NetworkGraph](ctx, "graph", failed)
	}
	return domain.Ok(g)
}
