package ripple

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes the value of an upstream observable.
//
// Get reads upstream only when the cache is dirty or has never been filled.
// Every upstream notification stores the value it carries, so a forwarded
// change is never stale, and is then passed on to the cache's own watchers.
type Cached[T any] struct {
	src      Observable[T]
	reg      *registry[T]
	upstream *Guard
	cfg      config

	mu    sync.Mutex
	value T
	valid bool
	gen   uint64
}

// Cache subscribes to src and returns the caching layer. Release detaches it.
func Cache[T any](src Observable[T], opts ...Option) *Cached[T] {
	c := &Cached[T]{
		src: src,
		reg: newRegistry[T](),
		cfg: newConfig("cache", opts),
	}
	c.upstream = src.Subscribe(c.onChange)
	return c
}

// Get returns the cached value, filling it from upstream when needed.
func (c *Cached[T]) Get() T {
	c.mu.Lock()
	if c.valid {
		v := c.value
		c.mu.Unlock()
		return v
	}
	gen := c.gen
	c.mu.Unlock()

	v := c.src.Get()

	c.mu.Lock()
	defer c.mu.Unlock()
	// A change that landed while upstream was being read is fresher.
	if c.gen == gen {
		c.value = v
		c.valid = true
	}
	return v
}

// Subscribe registers fn for forwarded changes.
func (c *Cached[T]) Subscribe(fn func(Context[T])) *Guard {
	return c.reg.add(fn)
}

// Invalidate marks the cache dirty so the next Get reads upstream.
func (c *Cached[T]) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.gen++
	c.mu.Unlock()
}

// Release detaches the cache from upstream. The last cached value stays
// readable.
func (c *Cached[T]) Release() {
	c.upstream.Release()
}

func (c *Cached[T]) onChange(ctx Context[T]) {
	c.cfg.metrics.OnChangeReceived(c.cfg.name)
	c.mu.Lock()
	c.value = ctx.Value
	c.valid = true
	c.gen++
	c.mu.Unlock()
	c.reg.notify(ctx)
	c.cfg.metrics.OnEmit(c.cfg.name)
}

// memo is a Map whose results are kept per input in a bounded LRU.
type memo[S comparable, T any] struct {
	src   Observable[S]
	f     func(S) T
	cache *lru.Cache[S, T]
}

// Memo returns Map(src, f) with results memoized per input value, keeping at
// most size entries. f must be pure.
func Memo[S comparable, T any](src Observable[S], f func(S) T, size int) (Observable[T], error) {
	cache, err := lru.New[S, T](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create memo cache: %w", err)
	}
	return &memo[S, T]{src: src, f: f, cache: cache}, nil
}

func (m *memo[S, T]) apply(s S) T {
	if v, ok := m.cache.Get(s); ok {
		return v
	}
	v := m.f(s)
	m.cache.Add(s, v)
	return v
}

func (m *memo[S, T]) Get() T {
	return m.apply(m.src.Get())
}

func (m *memo[S, T]) Subscribe(fn func(Context[T])) *Guard {
	return m.src.Subscribe(func(c Context[S]) {
		fn(MapContext(c, m.apply))
	})
}
