package ripple

import (
	"sync"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

// collector records every notification it receives.
type collector[T any] struct {
	mu       sync.Mutex
	values   []T
	contexts []Context[T]
}

func collect[T any](o Observable[T]) (*collector[T], *Guard) {
	c := &collector[T]{}
	g := o.Subscribe(func(ctx Context[T]) {
		c.mu.Lock()
		c.values = append(c.values, ctx.Value)
		c.contexts = append(c.contexts, ctx)
		c.mu.Unlock()
	})
	return c, g
}

func (c *collector[T]) snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.values))
	copy(out, c.values)
	return out
}

func (c *collector[T]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

func (c *collector[T]) context(i int) Context[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contexts[i]
}
