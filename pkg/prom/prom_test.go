package prom

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/zoobzio/clockz"

	"github.com/zoobzio/ripple"
)

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_Counters(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()))

	m.OnChangeReceived("a")
	m.OnChangeReceived("a")
	m.OnEmit("a")
	m.OnStateChange("a", ripple.StateIdle, ripple.StatePending)

	if got := testutil.ToFloat64(m.changes.WithLabelValues("a")); got != 2 {
		t.Errorf("changes_received_total=%v, want 2", got)
	}
	if got := testutil.ToFloat64(m.emits.WithLabelValues("a")); got != 1 {
		t.Errorf("emits_total=%v, want 1", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("a", "idle", "pending")); got != 1 {
		t.Errorf("state_transitions_total=%v, want 1", got)
	}
}

func TestMetrics_Durations(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	m.OnEffectSuccess("e", 10*time.Millisecond)
	m.OnEffectFailure("e", 20*time.Millisecond)
	m.OnEffectFailure("e", 30*time.Millisecond)
	m.OnMailboxRequest("loop", time.Millisecond)

	if got := histogramCount(t, m.effectDuration.WithLabelValues("e", "success")); got != 1 {
		t.Errorf("success samples=%d, want 1", got)
	}
	if got := histogramCount(t, m.effectDuration.WithLabelValues("e", "failure")); got != 2 {
		t.Errorf("failure samples=%d, want 2", got)
	}
	if got := histogramCount(t, m.mailboxDuration.WithLabelValues("loop")); got != 1 {
		t.Errorf("mailbox samples=%d, want 1", got)
	}
}

func TestMetrics_WithDebounce(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()))
	clock := clockz.NewFakeClock()

	b := ripple.NewBinding(0)
	d := ripple.Debounce[int](b, 100*time.Millisecond,
		ripple.WithClock(clock),
		ripple.WithName("search"),
		ripple.WithMetrics(m),
	)
	defer d.Release()

	b.Set(1)
	b.Set(2)

	clock.Advance(100 * time.Millisecond)
	clock.BlockUntilReady()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && testutil.ToFloat64(m.emits.WithLabelValues("search")) < 1 {
		time.Sleep(10 * time.Millisecond)
	}

	if got := testutil.ToFloat64(m.changes.WithLabelValues("search")); got != 2 {
		t.Errorf("changes_received_total=%v, want 2", got)
	}
	if got := testutil.ToFloat64(m.emits.WithLabelValues("search")); got != 1 {
		t.Errorf("emits_total=%v, want 1", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("search", "idle", "pending")); got != 1 {
		t.Errorf("idle->pending=%v, want 1", got)
	}
}
