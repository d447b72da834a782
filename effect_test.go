package ripple

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEffect_SyncModeSeesPreviousAndCurrent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBinding(1)
	var pairs [][2]int
	eff := NewEffect[int](b, func(_ context.Context, prev, curr int) error {
		pairs = append(pairs, [2]int{prev, curr})
		return nil
	}).SyncMode()

	if err := eff.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	b.Set(2)
	b.Set(5)

	expected := [][2]int{{1, 2}, {2, 5}}
	if !slices.Equal(pairs, expected) {
		t.Errorf("expected %v, got %v", expected, pairs)
	}
}

func TestEffect_StartTwice(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eff := NewEffect[int](NewBinding(0), func(context.Context, int, int) error { return nil }).SyncMode()
	if err := eff.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := eff.Start(ctx); err == nil {
		t.Error("expected error on second Start")
	}
}

func TestEffect_FailureKeepsPrevious(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBinding(0)
	var prevs []int
	eff := NewEffect[int](b, func(_ context.Context, prev, curr int) error {
		prevs = append(prevs, prev)
		if curr < 0 {
			return errors.New("negative")
		}
		return nil
	}).SyncMode().ErrorHistorySize(4)

	if err := eff.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	b.Set(-1)
	if eff.LastError() == nil {
		t.Error("expected LastError after failure")
	}
	if len(eff.ErrorHistory()) != 1 {
		t.Errorf("expected 1 error in history, got %d", len(eff.ErrorHistory()))
	}

	b.Set(3)
	if eff.LastError() != nil {
		t.Errorf("expected LastError cleared after success, got %v", eff.LastError())
	}

	// A failed change never becomes Previous.
	if !slices.Equal(prevs, []int{0, 0}) {
		t.Errorf("expected previous values [0 0], got %v", prevs)
	}
}

func TestEffect_AsyncKeepsLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBinding(0)
	gate := make(chan struct{})
	entered := make(chan struct{}, 1)

	var mu sync.Mutex
	var handled []int
	eff := NewEffect[int](b, func(_ context.Context, _, curr int) error {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-gate
		mu.Lock()
		handled = append(handled, curr)
		mu.Unlock()
		return nil
	})
	if err := eff.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	b.Set(1)
	<-entered

	// The effect is busy with 1; these collapse into the latest.
	b.Set(2)
	b.Set(3)
	b.Set(4)
	close(gate)

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(handled) == 2
	})
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(handled, []int{1, 4}) {
		t.Errorf("expected [1 4], got %v", handled)
	}
}

func TestEffect_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	b := NewBinding(0)
	var calls atomic.Int32
	eff := NewEffect[int](b, func(context.Context, int, int) error {
		calls.Add(1)
		return nil
	}).SyncMode()
	if err := eff.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	b.Set(1)
	cancel()
	waitFor(t, time.Second, func() bool { return b.Watchers() == 0 })
	b.Set(2)

	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestEffect_Metrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := &countingMetrics{}
	b := NewBinding(0)
	eff := NewEffect[int](b, func(_ context.Context, _, curr int) error {
		if curr%2 == 1 {
			return errors.New("odd")
		}
		return nil
	}).SyncMode().Metrics(m).Name("apply")
	if err := eff.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	b.Set(1)
	b.Set(2)
	b.Set(4)

	if m.success.Load() != 2 || m.failure.Load() != 1 {
		t.Errorf("expected 2 successes and 1 failure, got %d and %d", m.success.Load(), m.failure.Load())
	}
}

func TestEffect_CarriesMetadata(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	origin := NewKey[string]("origin")
	b := NewBinding(0)

	var seen string
	eff := NewEffect[int](b, func(context.Context, int, int) error { return nil },
		WithMiddleware(
			UseEffect[int]("inspect", func(_ context.Context, c *Change[int]) error {
				seen, _ = origin.From(c.Metadata)
				return nil
			}),
		),
	).SyncMode()
	if err := eff.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	b.SetWith(1, origin.Field("api"))
	if seen != "api" {
		t.Errorf("expected api, got %q", seen)
	}
}
