// Package testing provides test utilities and helpers for code built on ripple.
package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/ripple"
)

// TestConfig is a standard decoded type for Source tests.
type TestConfig struct {
	Port    int    `yaml:"port" json:"port"`
	Host    string `yaml:"host" json:"host"`
	Timeout int    `yaml:"timeout" json:"timeout"`
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// Recorder collects every value an observable notifies, in order. It is safe
// to use with observables that notify from other goroutines.
type Recorder[T any] struct {
	guard *ripple.Guard

	mu       sync.Mutex
	values   []T
	metadata []ripple.Metadata
}

// Record subscribes a new recorder to o. The subscription is released when
// the test finishes.
func Record[T any](t *testing.T, o ripple.Observable[T]) *Recorder[T] {
	t.Helper()
	r := &Recorder[T]{}
	r.guard = o.Subscribe(func(c ripple.Context[T]) {
		r.mu.Lock()
		r.values = append(r.values, c.Value)
		r.metadata = append(r.metadata, c.Metadata)
		r.mu.Unlock()
	})
	t.Cleanup(r.guard.Release)
	return r
}

// Values returns a copy of the recorded values.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Metadata returns the metadata recorded with the i-th value.
func (r *Recorder[T]) Metadata(i int) ripple.Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metadata[i]
}

// Len returns the number of recorded notifications.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Last returns the most recent value and whether any was recorded.
func (r *Recorder[T]) Last() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		var zero T
		return zero, false
	}
	return r.values[len(r.values)-1], true
}

// Release stops recording.
func (r *Recorder[T]) Release() {
	r.guard.Release()
}

// WaitForLen waits until at least n notifications were recorded.
func (r *Recorder[T]) WaitForLen(t *testing.T, n int, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return r.Len() >= n
	})
}

// RequireValue fails the test immediately if o does not currently hold want.
func RequireValue[T comparable](t *testing.T, o ripple.Observable[T], want T) {
	t.Helper()
	if got := o.Get(); got != want {
		t.Fatalf("expected value %v, got %v", want, got)
	}
}

// RequireValues fails the test if the recorder does not hold exactly want.
func RequireValues[T comparable](t *testing.T, r *Recorder[T], want ...T) {
	t.Helper()
	got := r.Values()
	if len(got) != len(want) {
		t.Fatalf("expected %d notifications %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notification %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

// NewTestSource creates a sync-mode source over a sync channel watcher.
// Returns the source and a channel for sending test payloads.
func NewTestSource(t *testing.T) (*ripple.Source[TestConfig], chan<- []byte) {
	t.Helper()
	ch := make(chan []byte, 10)
	s := ripple.NewSource(ripple.NewSyncChannelWatcher(ch), TestConfig{}).SyncMode()
	return s, ch
}
