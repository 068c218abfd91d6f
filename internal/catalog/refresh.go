package catalog

import (
	"sync"
	"time"
)

// RefreshGate is an explicit time-gated cache: it owns a value, the time it
// was last refreshed, and a refresh interval. Callers always go through
// GetOrRefresh, so there is no module-level mutable state.
type RefreshGate[T any] struct {
	mu          sync.Mutex
	value       T
	lastRefresh time.Time
	interval    time.Duration
	loaded      bool
}

// NewRefreshGate creates a gate that refreshes at most once per interval.
func NewRefreshGate[T any](interval time.Duration) *RefreshGate[T] {
	return &RefreshGate[T]{interval: interval}
}

// GetOrRefresh returns the cached value, invoking refresh first when the
// value is missing or older than the interval. A failed refresh serves the
// previous value when one exists; the gate stays due for refresh so the
// next caller retries.
func (g *RefreshGate[T]) GetOrRefresh(now time.Time, refresh func() (T, error)) (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loaded && now.Sub(g.lastRefresh) <= g.interval {
		return g.value, nil
	}

	value, err := refresh()
	if err != nil {
		if g.loaded {
			return g.value, nil
		}
		var zero T
		return zero, err
	}

	g.value = value
	g.lastRefresh = now
	g.loaded = true
	return g.value, nil
}
