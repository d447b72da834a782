package ripple

import (
	"slices"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestThrottle_LeadingAndTrailing(t *testing.T) {
	clock := clockz.NewFakeClock()
	b := NewBinding(0)
	th := Throttle[int](b, 100*time.Millisecond, WithClock(clock))
	defer th.Release()

	c, g := collect[int](th)
	defer g.Release()

	b.Set(1)
	if got := c.snapshot(); !slices.Equal(got, []int{1}) {
		t.Fatalf("expected leading edge [1], got %v", got)
	}
	if th.State() != StateCooldown {
		t.Errorf("expected cooldown, got %s", th.State())
	}

	b.Set(2)
	b.Set(3)
	b.Set(4)
	if c.len() != 1 {
		t.Errorf("expected writes inside the window to be held, got %v", c.snapshot())
	}

	clock.Advance(110 * time.Millisecond)
	clock.BlockUntilReady()
	waitFor(t, time.Second, func() bool { return c.len() == 2 })

	if got := c.snapshot(); !slices.Equal(got, []int{1, 4}) {
		t.Errorf("expected [1 4], got %v", got)
	}
	if th.Get() != 4 {
		t.Errorf("expected 4, got %d", th.Get())
	}

	// The trailing emission opened a new window with nothing pending.
	clock.Advance(110 * time.Millisecond)
	clock.BlockUntilReady()
	waitFor(t, time.Second, func() bool { return th.State() == StateIdle })

	b.Set(5)
	if got := c.snapshot(); !slices.Equal(got, []int{1, 4, 5}) {
		t.Errorf("expected immediate leading edge after idle, got %v", got)
	}
}

func TestThrottle_SteadyStream(t *testing.T) {
	clock := clockz.NewFakeClock()
	const interval = 100 * time.Millisecond
	b := NewBinding(-1)
	th := Throttle[int](b, interval, WithClock(clock))
	defer th.Release()

	c, g := collect[int](th)
	defer g.Release()

	// Ten writes at half-interval spacing: one emission per interval plus
	// the leading edge, never one per write.
	for i := 0; i < 10; i++ {
		b.Set(i)
		if i%2 == 0 {
			clock.Advance(interval / 2)
			clock.BlockUntilReady()
			continue
		}
		want := c.len() + 1
		clock.Advance(interval/2 + time.Millisecond)
		clock.BlockUntilReady()
		waitFor(t, time.Second, func() bool { return c.len() == want })
	}

	expected := []int{0, 1, 3, 5, 7, 9}
	if got := c.snapshot(); !slices.Equal(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestThrottle_ReleaseDropsPending(t *testing.T) {
	clock := clockz.NewFakeClock()
	b := NewBinding(0)
	th := Throttle[int](b, 100*time.Millisecond, WithClock(clock))

	c, g := collect[int](th)
	defer g.Release()

	b.Set(1)
	b.Set(2)
	th.Release()

	clock.Advance(200 * time.Millisecond)
	clock.BlockUntilReady()
	time.Sleep(10 * time.Millisecond)

	if got := c.snapshot(); !slices.Equal(got, []int{1}) {
		t.Errorf("expected only the leading edge, got %v", got)
	}
	if th.State() != StateReleased {
		t.Errorf("expected released, got %s", th.State())
	}
}

func TestThrottle_Transitions(t *testing.T) {
	clock := clockz.NewFakeClock()
	m := &countingMetrics{}
	b := NewBinding(0)
	th := Throttle[int](b, 100*time.Millisecond, WithClock(clock), WithMetrics(m))
	defer th.Release()

	b.Set(1)
	clock.Advance(110 * time.Millisecond)
	clock.BlockUntilReady()
	waitFor(t, time.Second, func() bool { return th.State() == StateIdle })

	expected := []string{"idle->cooldown", "cooldown->idle"}
	waitFor(t, time.Second, func() bool { return len(m.states()) == 2 })
	if got := m.states(); !slices.Equal(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestThrottle_SlowWatcherKeepsEmissionOrder(t *testing.T) {
	clock := clockz.NewFakeClock()
	const interval = 100 * time.Millisecond

	var push func(Context[int])
	src := Func(func() int { return 0 }, func(fn func(Context[int])) *Guard {
		push = fn
		return NopGuard()
	})
	th := Throttle[int](src, interval, WithClock(clock))
	defer th.Release()

	c, g := collect[int](th)
	defer g.Release()
	entered := make(chan struct{})
	unblock := make(chan struct{})
	slow := th.Subscribe(func(c Context[int]) {
		if c.Value == 1 {
			close(entered)
			<-unblock
		}
	})
	defer slow.Release()

	go push(NewContext(1))
	<-entered

	// The window closes while the leading emission is still running.
	push(NewContext(2))
	clock.Advance(interval)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)

	if got := c.snapshot(); !slices.Equal(got, []int{1}) {
		t.Errorf("expected trailing edge to wait for the leading one, got %v", got)
	}

	close(unblock)
	waitFor(t, time.Second, func() bool { return c.len() == 2 })
	if got := c.snapshot(); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", got)
	}
}
