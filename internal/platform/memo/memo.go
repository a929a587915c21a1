// Package memo provides bounded, concurrency-safe memoization for expensive lookups.
package memo

import (
	"fmt"

	"geo-route-service/internal/platform/obs"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memo is a least-recently-used cache of successful results. Failed computations are never
// stored, so a transient upstream failure is retried on the next call.
type Memo[K comparable, V any] struct {
	name  string
	cache *lru.Cache[K, V]
}

func New[K comparable, V any](name string, size int) (*Memo[K, V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("memo %s: size must be positive, got %d", name, size)
	}
	c, err := lru.New[K, V](size)
	if err != nil {
		return nil, fmt.Errorf("memo %s: %w", name, err)
	}
	return &Memo[K, V]{name: name, cache: c}, nil
}

func (m *Memo[K, V]) Get(key K) (V, bool) {
	v, ok := m.cache.Get(key)
	obs.Lookup(m.name, ok)
	return v, ok
}

func (m *Memo[K, V]) Add(key K, v V) {
	m.cache.Add(key, v)
}

// Do returns the cached value for key or calls fn, storing its value only when ok is true.
func (m *Memo[K, V]) Do(key K, fn func() (V, bool)) (V, bool) {
	if v, ok := m.Get(key); ok {
		return v, true
	}
	v, ok := fn()
	if ok {
		m.cache.Add(key, v)
	}
	return v, ok
}
