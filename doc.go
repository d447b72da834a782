/*
Package ripple provides an in-process reactive runtime: observable value cells,
derived values, cadence operators and bridges to goroutines and channels.

ripple is a library, not a framework. There is no global scheduler: a write
notifies watchers synchronously on the writer's goroutine, and only the
operators that own a timer or a goroutine (Debounce, Throttle, Effect,
Mailbox) move work elsewhere.

# Bindings

A Binding is the root of every graph. It owns a value and the watchers
registered on it:

	count := ripple.NewBinding(0)
	guard := count.Subscribe(func(c ripple.Context[int]) {
	    fmt.Println("count is now", c.Value)
	})
	defer guard.Release()

	count.Set(1)
	ripple.Increment(count, 2)

Watchers run without the binding's lock held. A write issued while the same
binding is dispatching, from a watcher or from another goroutine, is queued
and delivered after the current dispatch, in order.

# Derived values

Map, Combine and Sprintf build read-only views. They hold no state: Get
recomputes and Subscribe forwards upstream changes. Mappings such as Project,
Filter, Not and Select are writable views that route writes back to their
source.

# Operators

	settled := ripple.Debounce(query, 300*time.Millisecond)
	ticks := ripple.Throttle(position, time.Second)
	changes := ripple.Distinct[int](count)
	total := ripple.Cache(ripple.Map(items, sum))

Each operator subscribes upstream at construction and exposes Release to
detach. Debounce and Throttle accept WithClock for deterministic tests with
clockz.FakeClock.

# Async bridge

A Future is an observable of Optional values resolved once. A Stream turns
changes into a pull sequence keeping only the latest value. A Loop plus
Mailbox lets other goroutines read and write a binding owned by one goroutine.

# Observability

The package does not log. Rate controllers, futures, loops, sources and
effects emit capitan signals (see signals.go); Trace wraps any observable to
report reads, changes and subscriptions. pkg/zaptrace turns the signals into
zap log lines and pkg/prom implements MetricsProvider with Prometheus.
*/
package ripple
