// Package overpass builds routable street networks from OpenStreetMap data served by the
// Overpass API.
package overpass

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/geodesy"
	"geo-route-service/internal/platform/httpx"
	"geo-route-service/internal/platform/obs"
	"geo-route-service/internal/ports"
)

type Provider struct {
	baseURL      string
	client       *httpx.Client
	queryTimeout time.Duration
	retainAll    bool
}

var _ ports.NetworkProvider = (*Provider)(nil)

type Option func(*Provider)

// WithRetainAll keeps disconnected fragments of the network.
func WithRetainAll() Option {
	return func(p *Provider) { p.retainAll = true }
}

// NewProvider returns a provider posting queries to baseURL (the interpreter endpoint).
// queryTimeout is the server-side [timeout:] budget of each query.
func NewProvider(baseURL string, client *httpx.Client, queryTimeout time.Duration, opts ...Option) (*Provider, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("overpass: base url is required")
	}
	if client == nil {
		return nil, fmt.Errorf("overpass: http client is required")
	}
	if queryTimeout <= 0 {
		queryTimeout = 180 * time.Second
	}

	p := &Provider{baseURL: baseURL, client: client, queryTimeout: queryTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Query renders the Overpass QL request for all ways of networkType inside bbox, together with
// their nodes.
func Query(bbox domain.BoundingBox, networkType string, timeout time.Duration) (string, error) {
	f, err := FilterFor(networkType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("[out:xml][timeout:%d];(way%s(%s,%s,%s,%s);>;);out;",
		int(timeout.Seconds()), f.QL(),
		fmtCoord(bbox.South), fmtCoord(bbox.West), fmtCoord(bbox.North), fmtCoord(bbox.East)), nil
}

func fmtCoord(v float64) string {
	return fmt.Sprintf("%.7f", v)
}

func (p *Provider) GraphFromBBox(
	ctx context.Context,
	bbox domain.BoundingBox,
	networkType string,
) (_ *domain.NetworkGraph, err error) {
	defer obs.Time(ctx, "overpass.GraphFromBBox")(&err)

	if err := bbox.Validate(); err != nil {
		return nil, fmt.Errorf("graph from bbox: %w", err)
	}

	query, err := Query(bbox, networkType, p.queryTimeout)
	if err != nil {
		return nil, fmt.Errorf("graph from bbox: %w", err)
	}

	form := url.Values{"data": {query}}.Encode()
	resp, err := p.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return p.client.NewRequest(ctx, http.MethodPost, p.baseURL, strings.NewReader(form))
	})
	if err != nil {
		return nil, fmt.Errorf("graph from bbox %s: execute request: %w", bbox, err)
	}
	defer resp.Body.Close()

	b := Builder{NetworkType: networkType, BBox: &bbox, RetainAll: p.retainAll}
	g, err := b.Build(ctx, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("graph from bbox %s: %w", bbox, err)
	}
	return g, nil
}

// GraphFromPoint fetches the network within dist meters of center in each cardinal direction.
func (p *Provider) GraphFromPoint(
	ctx context.Context,
	center domain.GeoPoint,
	dist float64,
	networkType string,
) (*domain.NetworkGraph, error) {
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("graph from point: %w", err)
	}
	if !(dist > 0) {
		return nil, fmt.Errorf("graph from point: distance must be positive, got %v", dist)
	}
	return p.GraphFromBBox(ctx, geodesy.BoundAroundPoint(center, dist), networkType)
}
