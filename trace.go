package ripple

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// TraceFlags selects the event categories Trace reports.
type TraceFlags uint8

const (
	// TraceCompute reports every Get.
	TraceCompute TraceFlags = 1 << iota

	// TraceChange reports every notification.
	TraceChange

	// TraceSubscribe reports new watchers.
	TraceSubscribe

	// TraceUnsubscribe reports released watchers.
	TraceUnsubscribe

	// TraceAll reports everything.
	TraceAll = TraceCompute | TraceChange | TraceSubscribe | TraceUnsubscribe
)

// traced wraps an observable and reports its activity as capitan signals.
type traced[T any] struct {
	src   Observable[T]
	name  string
	id    string
	flags TraceFlags
}

// Trace wraps src so that the selected categories of activity are emitted as
// TraceComputed, TraceChanged, TraceWatcherAdded and TraceWatcherRemoved
// signals carrying the name, a trace id unique to this wrapper and the
// formatted value. Values and notifications pass through untouched.
func Trace[T any](src Observable[T], name string, flags TraceFlags) Observable[T] {
	return &traced[T]{
		src:   src,
		name:  name,
		id:    uuid.NewString(),
		flags: flags,
	}
}

func (t *traced[T]) Get() T {
	v := t.src.Get()
	if t.flags&TraceCompute != 0 {
		capitan.Emit(context.Background(), TraceComputed,
			KeyName.Field(t.name),
			KeyTraceID.Field(t.id),
			KeyValue.Field(fmt.Sprint(v)),
		)
	}
	return v
}

func (t *traced[T]) Subscribe(fn func(Context[T])) *Guard {
	g := t.src.Subscribe(func(c Context[T]) {
		if t.flags&TraceChange != 0 {
			capitan.Emit(context.Background(), TraceChanged,
				KeyName.Field(t.name),
				KeyTraceID.Field(t.id),
				KeyValue.Field(fmt.Sprint(c.Value)),
			)
		}
		fn(c)
	})
	if t.flags&TraceSubscribe != 0 {
		capitan.Emit(context.Background(), TraceWatcherAdded,
			KeyName.Field(t.name),
			KeyTraceID.Field(t.id),
		)
	}
	if t.flags&TraceUnsubscribe == 0 {
		return g
	}
	return NewGuard(func() {
		g.Release()
		capitan.Emit(context.Background(), TraceWatcherRemoved,
			KeyName.Field(t.name),
			KeyTraceID.Field(t.id),
		)
	})
}
