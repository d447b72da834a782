package ripple

import "context"

// ChannelWatcher wraps an existing byte channel as a Watcher.
// Useful for testing and custom sources that already produce bytes.
type ChannelWatcher struct {
	ch   <-chan []byte
	sync bool
}

// NewChannelWatcher creates a ChannelWatcher that relays values through its
// own goroutine, so the returned channel closes when the Watch context ends.
func NewChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch}
}

// NewSyncChannelWatcher creates a ChannelWatcher that hands out the source
// channel itself. Combine with Source.SyncMode for deterministic tests.
func NewSyncChannelWatcher(ch <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{ch: ch, sync: true}
}

// Watch returns a channel carrying the wrapped channel's values.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if w.sync {
		return w.ch, nil
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		drain(ctx, w.ch, func(v []byte) {
			select {
			case out <- v:
			case <-ctx.Done():
			}
		})
	}()
	return out, nil
}
