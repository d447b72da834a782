package ripple

import "sync"

// failures keeps the most recent error and, when sized, a bounded history of
// recent errors, oldest first.
type failures struct {
	mu    sync.Mutex
	last  error
	ring  []error
	head  int
	count int
}

// newFailures creates a record keeping up to size past errors. A size of 0
// keeps only the last error.
func newFailures(size int) *failures {
	f := &failures{}
	if size > 0 {
		f.ring = make([]error, size)
	}
	return f
}

// record stores err as the last error and appends it to the history.
func (f *failures) record(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = err
	if len(f.ring) == 0 {
		return
	}
	f.ring[f.head] = err
	f.head = (f.head + 1) % len(f.ring)
	if f.count < len(f.ring) {
		f.count++
	}
}

// reset forgets everything after a success.
func (f *failures) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = nil
	clear(f.ring)
	f.head = 0
	f.count = 0
}

// lastError returns the most recent error since the last reset.
func (f *failures) lastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// history returns the retained errors, oldest first, or nil when none are
// retained.
func (f *failures) history() []error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.count == 0 {
		return nil
	}
	out := make([]error, f.count)
	start := (f.head - f.count + len(f.ring)) % len(f.ring)
	for i := range out {
		out[i] = f.ring[(start+i)%len(f.ring)]
	}
	return out
}
