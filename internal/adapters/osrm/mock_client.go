package osrm

import (
	"context"
	"fmt"

	"geo-route-service/internal/domain"
)

type MockPair struct {
	From, To domain.GeoPoint
	Route    domain.RemoteRoute
}

// MockClient answers from a fixed table of point pairs.
type MockClient struct {
	m map[string]domain.RemoteRoute
}

func NewMockClient(pairs []MockPair) *MockClient {
	m := make(map[string]domain.RemoteRoute, len(pairs))
	for _, p := range pairs {
		m[p.From.String()+"|"+p.To.String()] = p.Route
	}
	return &MockClient{m: m}
}

func (c *MockClient) Route(ctx context.Context, start, end domain.GeoPoint) (domain.RemoteRoute, error) {
	r, ok := c.m[start.String()+"|"+end.String()]
	if !ok {
		return domain.RemoteRoute{}, fmt.Errorf("missing pair %s -> %s: %w", start, end, domain.ErrNoRoute)
	}
	return r, nil
}
