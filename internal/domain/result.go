package domain

import "fmt"

// Result carries either a value or the cause of an expected, externally caused failure
// (unreachable provider, unresolvable place, disconnected graph). Locally caused faults are
// returned as plain errors instead.
type Result[T any] struct {
	Value T
	Err   error
	ok    bool
}

func Ok[T any](v T) Result[T] { return Result[T]{Value: v, ok: true} }

func Fail[T any](err error) Result[T] {
	if err == nil {
		err = fmt.Errorf("unspecified failure")
	}
	return Result[T]{Err: err}
}

func (r Result[T]) OK() bool { return r.ok }

func (r Result[T]) Get() (T, bool) { return r.Value, r.ok }

func (r Result[T]) ValueOr(fallback T) T {
	if !r.ok {
		return fallback
	}
	return r.Value
}

// LegacyDistance maps a failed scalar to the historical -1 sentinel.
func LegacyDistance(r Result[float64]) float64 {
	return r.ValueOr(-1)
}
