package ripple

import (
	"slices"
	"sync/atomic"
	"testing"
)

// countingObservable counts upstream reads.
func countingObservable(b *Binding[int], reads *atomic.Int64) Observable[int] {
	return Func(func() int {
		reads.Add(1)
		return b.Get()
	}, b.Subscribe)
}

func TestCache_ReadsUpstreamOnce(t *testing.T) {
	b := NewBinding(1)
	var reads atomic.Int64
	c := Cache(countingObservable(b, &reads))
	defer c.Release()

	for i := 0; i < 5; i++ {
		if c.Get() != 1 {
			t.Errorf("expected 1, got %d", c.Get())
		}
	}
	if reads.Load() != 1 {
		t.Errorf("expected 1 upstream read, got %d", reads.Load())
	}
}

func TestCache_ChangeRefreshesWithoutRead(t *testing.T) {
	b := NewBinding(1)
	var reads atomic.Int64
	c := Cache(countingObservable(b, &reads))
	defer c.Release()

	col, g := collect[int](c)
	defer g.Release()

	b.Set(2)
	b.Set(3)

	if c.Get() != 3 {
		t.Errorf("expected 3, got %d", c.Get())
	}
	if reads.Load() != 0 {
		t.Errorf("expected changes to fill the cache without reads, got %d", reads.Load())
	}
	if got := col.snapshot(); !slices.Equal(got, []int{2, 3}) {
		t.Errorf("expected [2 3], got %v", got)
	}
}

func TestCache_Invalidate(t *testing.T) {
	b := NewBinding(1)
	var reads atomic.Int64
	c := Cache(countingObservable(b, &reads))
	defer c.Release()

	c.Get()
	c.Invalidate()
	c.Get()
	c.Get()

	if reads.Load() != 2 {
		t.Errorf("expected 2 upstream reads, got %d", reads.Load())
	}
}

func TestCache_Release(t *testing.T) {
	b := NewBinding(1)
	c := Cache[int](b)
	c.Get()
	c.Release()

	b.Set(9)
	if c.Get() != 1 {
		t.Errorf("expected released cache to keep 1, got %d", c.Get())
	}
	if b.Watchers() != 0 {
		t.Errorf("expected upstream released, got %d watchers", b.Watchers())
	}
}

func TestCache_Metrics(t *testing.T) {
	b := NewBinding(0)
	m := &countingMetrics{}
	c := Cache[int](b, WithMetrics(m), WithName("totals"))
	defer c.Release()

	b.Set(1)
	b.Set(2)

	if m.received.Load() != 2 || m.emitted.Load() != 2 {
		t.Errorf("expected 2 received and 2 emitted, got %d and %d", m.received.Load(), m.emitted.Load())
	}
}

func TestMemo(t *testing.T) {
	b := NewBinding(2)
	var calls int
	m, err := Memo[int](b, func(v int) int {
		calls++
		return v * v
	}, 8)
	if err != nil {
		t.Fatalf("Memo failed: %v", err)
	}

	m.Get()
	m.Get()
	b.Set(3)
	m.Get()
	b.Set(2)
	m.Get()

	if calls != 2 {
		t.Errorf("expected 2 computations, got %d", calls)
	}

	c, g := collect(m)
	defer g.Release()
	b.Set(3)
	if got := c.snapshot(); !slices.Equal(got, []int{9}) {
		t.Errorf("expected [9], got %v", got)
	}
}

func TestMemo_InvalidSize(t *testing.T) {
	if _, err := Memo[int](NewBinding(0), func(v int) int { return v }, 0); err == nil {
		t.Error("expected error for zero size")
	}
}
