package services

import (
	"context"
	"fmt"
	"log"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/memo"
	"geo-route-service/internal/platform/obs"
	"geo-route-service/internal/ports"
)

// RemoteRouter asks a routing service for server-computed distance and duration. It is
// independent of the local graph and serves as a cross-check for RoadDistance.
type RemoteRouter struct {
	provider ports.RemoteRouteProvider
	cache    ports.RouteCache
	routes   *memo.Memo[string, domain.RemoteRoute]
}

// NewRemoteRouter builds a router; c may be nil to disable persistent caching.
func NewRemoteRouter(p ports.RemoteRouteProvider, c ports.RouteCache, memoSize int) (*RemoteRouter, error) {
	if p == nil {
		return nil, fmt.Errorf("new remote router: provider is nil")
	}
	routes, err := memo.New[string, domain.RemoteRoute]("remote_route", memoSize)
	if err != nil {
		return nil, fmt.Errorf("new remote router: %w", err)
	}
	return &RemoteRouter{provider: p, cache: c, routes: routes}, nil
}

// Route returns distance and duration from start to end, or a failed result when the service
// has no route or cannot be reached.
func (r *RemoteRouter) Route(ctx context.Context, start, end domain.GeoPoint) domain.Result[domain.RemoteRoute] {
	return r.Routes(ctx, start, []domain.GeoPoint{end})[0]
}

// Routes resolves one origin against many ends. Cached pairs are answered from the memo and
// the persistent cache; the rest are requested one by one and written back in a single batch.
func (r *RemoteRouter) Routes(ctx context.Context, start domain.GeoPoint, ends []domain.GeoPoint) []domain.Result[domain.RemoteRoute] {
	out := make([]domain.Result[domain.RemoteRoute], len(ends))
	if err := start.Validate(); err != nil {
		for i := range out {
			out[i] = degrade[domain.RemoteRoute](ctx, "remote_route", fmt.Errorf("remote route: start: %w", err))
		}
		return out
	}

	origin := start.String()
	var misses []int
	for i, end := range ends {
		if err := end.Validate(); err != nil {
			out[i] = degrade[domain.RemoteRoute](ctx, "remote_route", fmt.Errorf("remote route: end: %w", err))
			continue
		}
		if v, ok := r.routes.Get(origin + "|" + end.String()); ok {
			out[i] = domain.Ok(v)
			continue
		}
		misses = append(misses, i)
	}

	if len(misses) > 0 && r.cache != nil {
		keys := make([]string, len(misses))
		for k, i := range misses {
			keys[k] = ends[i].String()
		}
		hits, err := r.cache.GetMany(ctx, origin, keys)
		if err != nil {
			log.Printf("req_id=%s route cache read failed origin=%s err=%v", obs.RequestID(ctx), origin, err)
		}

		remaining := misses[:0]
		for _, i := range misses {
			dest := ends[i].String()
			v, ok := hits[dest]
			obs.Lookup("route_store", ok)
			if !ok {
				remaining = append(remaining, i)
				continue
			}
			r.routes.Add(origin+"|"+dest, v)
			out[i] = domain.Ok(v)
		}
		misses = remaining
	}

	fetched := make(map[string]domain.RemoteRoute)
	for _, i := range misses {
		dest := ends[i].String()
		if v, ok := fetched[dest]; ok {
			out[i] = domain.Ok(v)
			continue
		}

		v, err := r.provider.Route(ctx, start, ends[i])
		if err != nil {
			out[i] = degrade[domain.RemoteRoute](ctx, "remote_route", fmt.Errorf("remote route %s -> %s: %w", origin, dest, err))
			continue
		}
		fetched[dest] = v
		r.routes.Add(origin+"|"+dest, v)
		out[i] = domain.Ok(v)
	}

	if r.cache != nil && len(fetched) > 0 {
		if err := r.cache.PutMany(ctx, origin, fetched); err != nil {
			log.Printf("req_id=%s route cache write failed origin=%s err=%v", obs.RequestID(ctx), origin, err)
		}
	}

	return out
}
