package ripple

import "context"

// Watcher observes an external source and emits its raw payload on a channel
// whenever it changes. It is the input of a Source.
type Watcher interface {
	// Watch begins observing and returns the payload channel. The current
	// payload should be emitted first. The channel is closed when ctx is
	// canceled or the source fails for good.
	Watch(ctx context.Context) (<-chan []byte, error)
}

// drain calls fn for every value received on ch until ch closes or ctx is
// done.
func drain[T any](ctx context.Context, ch <-chan T, fn func(T)) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			fn(v)
		}
	}
}
