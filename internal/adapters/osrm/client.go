package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/httpx"
	"geo-route-service/internal/platform/obs"
	"geo-route-service/internal/ports"
)

// Client queries the OSRM route service for server-side driving distance and duration.
type Client struct {
	baseURL string
	profile string
	client  *httpx.Client
}

var _ ports.RemoteRouteProvider = (*Client)(nil)

func NewClient(baseURL string, client *httpx.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("osrm: base url is required")
	}
	if client == nil {
		return nil, fmt.Errorf("osrm: http client is required")
	}
	return &Client{baseURL: baseURL, profile: "driving", client: client}, nil
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

func coord(p domain.GeoPoint) string {
	return strconv.FormatFloat(p.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64)
}

// Endpoint returns the route URL for start -> end. OSRM takes lon,lat pairs.
func (c *Client) Endpoint(start, end domain.GeoPoint) string {
	return fmt.Sprintf("%s/route/v1/%s/%s;%s?overview=false", c.baseURL, c.profile, coord(start), coord(end))
}

// Route returns the first route's distance and duration. A response without routes, or with a
// code other than "Ok", is reported as domain.ErrNoRoute.
func (c *Client) Route(ctx context.Context, start, end domain.GeoPoint) (_ domain.RemoteRoute, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if err := start.Validate(); err != nil {
		return domain.RemoteRoute{}, fmt.Errorf("osrm route: start: %w", err)
	}
	if err := end.Validate(); err != nil {
		return domain.RemoteRoute{}, fmt.Errorf("osrm route: end: %w", err)
	}

	endpoint := c.Endpoint(start, end)
	resp, err := c.client.DoWithRetry(ctx, func() (*http.Request, error) {
		return c.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return domain.RemoteRoute{}, fmt.Errorf("osrm route: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.RemoteRoute{}, fmt.Errorf("osrm route: decode response: %w", err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return domain.RemoteRoute{}, fmt.Errorf("osrm route %s -> %s: %w: code=%s %s",
			start, end, domain.ErrNoRoute, decoded.Code, decoded.Message)
	}

	r := decoded.Routes[0]
	return domain.RemoteRoute{DistanceMeters: r.Distance, DurationSeconds: r.Duration}, nil
}
