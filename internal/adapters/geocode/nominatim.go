package geocode

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

// NominatimGeocoder resolves free-text places with the OSM Nominatim search API.
type NominatimGeocoder struct {
	baseURL string
	client  *httpx.Client
}

var _ ports.Geocoder = (*NominatimGeocoder)(nil)

func NewNominatimGeocoder(baseURL string, client *httpx.Client) (*NominatimGeocoder, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("nominatim: base url is required")
	}
	if client == nil {
		return nil, fmt.Errorf("nominatim: http client is required")
	}
	return &NominatimGeocoder{baseURL: baseURL, client: client}, nil
}

type searchResult struct {
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	DisplayName string   `json:"display_name"`
	BoundingBox []string `json:"boundingbox"`
}

// Lookup returns the first search hit for query. An empty result set is reported as
// domain.ErrNotFound.
func (n *NominatimGeocoder) Lookup(ctx context.Context, query string) (_ ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "nominatim.Lookup")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return ports.GeocodeResult{}, fmt.Errorf("nominatim lookup: %w: empty query", domain.ErrNotFound)
	}

	endpoint := n.baseURL + "/search"

	resp, err := n.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := n.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", query)
		q.Set("format", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("nominatim lookup %q: execute request: %w", query, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("nominatim lookup %q: decode response: %w", query, err)
	}

	if len(decoded) == 0 {
		return ports.GeocodeResult{}, fmt.Errorf("nominatim lookup %q: %w", query, domain.ErrNotFound)
	}

	return decoded[0].toResult()
}

func (r searchResult) toResult() (ports.GeocodeResult, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("nominatim: parse lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("nominatim: parse lon %q: %w", r.Lon, err)
	}

	p := domain.NewGeoPoint(lat, lon)
	if err := p.Validate(); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("nominatim: %w", err)
	}

	out := ports.GeocodeResult{Point: p, DisplayName: r.DisplayName}

	// boundingbox is [south, north, west, east]
	if len(r.BoundingBox) == 4 {
		var v [4]float64
		for i, s := range r.BoundingBox {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return out, nil
			}
			v[i] = f
		}
		bbox := domain.BoundingBox{South: v[0], North: v[1], West: v[2], East: v[3]}
		if bbox.Validate() == nil {
			out.BoundingBox = &bbox
		}
	}

	return out, nil
}
