package geocode

import (
	"context"
	"fmt"
	"sync"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/ports"
)

// MockGeocoder answers from a fixed table and counts calls, for tests and offline runs.
type MockGeocoder struct {
	mu      sync.Mutex
	results map[string]ports.GeocodeResult
	calls   map[string]int
}

func NewMockGeocoder(results map[string]ports.GeocodeResult) *MockGeocoder {
	return &MockGeocoder{results: results, calls: map[string]int{}}
}

func (m *MockGeocoder) Lookup(ctx context.Context, query string) (ports.GeocodeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[query]++
	r, ok := m.results[query]
	if !ok {
		return ports.GeocodeResult{}, fmt.Errorf("mock geocoder %q: %w", query, domain.ErrNotFound)
	}
	return r, nil
}

func (m *MockGeocoder) Calls(query string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[query]
}
