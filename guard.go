package ripple

import (
	"sync"
	"sync/atomic"
)

// Guard controls the lifetime of a subscription. Releasing it removes the
// registration so no later dispatch reaches the callback.
//
// Release is idempotent and safe to call on a nil Guard, after the observed
// value has been garbage collected, and from inside a callback.
type Guard struct {
	once     sync.Once
	released atomic.Bool
	release  func()
}

// NewGuard creates a guard that runs fn once on the first Release.
func NewGuard(fn func()) *Guard {
	return &Guard{release: fn}
}

// NopGuard returns a guard whose release does nothing. Observables that never
// change hand these out.
func NopGuard() *Guard {
	return &Guard{}
}

// Release revokes the subscription.
func (g *Guard) Release() {
	if g == nil {
		return
	}
	g.once.Do(func() {
		g.released.Store(true)
		if g.release != nil {
			g.release()
		}
	})
}

// Released reports whether Release has been called.
func (g *Guard) Released() bool {
	if g == nil {
		return true
	}
	return g.released.Load()
}

// JoinGuards returns a guard releasing every given guard in order.
func JoinGuards(guards ...*Guard) *Guard {
	return NewGuard(func() {
		for _, g := range guards {
			g.Release()
		}
	})
}
