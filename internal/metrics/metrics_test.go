package metrics

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/history"
	"github.com/san-kum/attractor/internal/integrators"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

func lorenzSession(t *testing.T, opts ...sim.Option) *sim.Session {
	t.Helper()
	x, err := dynamo.BatchFrom([][]float64{{1, 1, 1}, {-1, 2, 20}})
	if err != nil {
		t.Fatal(err)
	}
	cfg := sim.Config{Dt: 0.01, Capacity: 8}
	s, err := sim.NewSession(integrators.New(physics.NewLorenz(), nil), x, cfg, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCollectorCountsAdvances(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	s := lorenzSession(t, sim.WithObserver(c))

	for _, k := range []int{3, 4, 5} {
		if _, err := s.Advance(k); err != nil {
			t.Fatal(err)
		}
	}

	if got := testutil.ToFloat64(c.Steps.WithLabelValues("lorenz")); got != 12 {
		t.Errorf("expected 12 steps, got %v", got)
	}
	if got := testutil.ToFloat64(c.Advances.WithLabelValues("lorenz")); got != 3 {
		t.Errorf("expected 3 advances, got %v", got)
	}
	if got := testutil.ToFloat64(c.WindowFilled.WithLabelValues("lorenz")); got != 8 {
		t.Errorf("expected a full window of 8, got %v", got)
	}
	if got := testutil.ToFloat64(c.NonFinite.WithLabelValues("lorenz")); got != 0 {
		t.Errorf("expected no diverged particles, got %v", got)
	}
	if n := testutil.CollectAndCount(c.AdvanceDuration); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestCollectorLabelsBySessionName(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	a := lorenzSession(t, sim.WithObserver(c), sim.WithName("a"))
	b := lorenzSession(t, sim.WithObserver(c), sim.WithName("b"))

	a.Advance(2)
	b.Advance(5)

	if got := testutil.ToFloat64(c.Steps.WithLabelValues("a")); got != 2 {
		t.Errorf("a: expected 2 steps, got %v", got)
	}
	if got := testutil.ToFloat64(c.Steps.WithLabelValues("b")); got != 5 {
		t.Errorf("b: expected 5 steps, got %v", got)
	}
}

func TestCollectorRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	NewCollector(reg)
}

func TestStatsEmptyWindow(t *testing.T) {
	w, _ := history.New(2, 4, 3)
	st := Stats(w, 0.01, 0)
	if st.Filled != 0 || st.Lo != nil || st.MeanSpeed != 0 {
		t.Errorf("unexpected stats for empty window: %+v", st)
	}
}

func TestStatsSpeedAndBounds(t *testing.T) {
	w, _ := history.New(2, 4, 2)
	seg := dynamo.NewSegment(2, 2, 2)
	copy(seg.Point(0, 0), []float64{0, 0})
	copy(seg.Point(0, 1), []float64{3, 4})
	copy(seg.Point(1, 0), []float64{1, 1})
	copy(seg.Point(1, 1), []float64{1, 1})
	if err := w.Append(seg); err != nil {
		t.Fatal(err)
	}

	st := Stats(w, 0.5, 2)
	if st.Filled != 2 {
		t.Errorf("expected filled 2, got %d", st.Filled)
	}
	// particle 0 moves 5 in 0.5, particle 1 rests
	if math.Abs(st.MeanSpeed-5) > 1e-12 {
		t.Errorf("expected mean speed 5, got %v", st.MeanSpeed)
	}
	if st.Lo[0] != 0 || st.Hi[1] != 4 {
		t.Errorf("bounds should ignore the zero prefix, got %v %v", st.Lo, st.Hi)
	}
	if st.Escaped != 1 {
		t.Errorf("expected one particle beyond radius 2, got %d", st.Escaped)
	}
}

func TestStatsReadsPartialWindowInPlace(t *testing.T) {
	w, _ := history.New(50, 400, 3)
	seg := dynamo.NewSegment(50, 100, 3)
	for i := range seg.Data {
		seg.Data[i] = float64(i%7) - 3
	}
	if err := w.Append(seg); err != nil {
		t.Fatal(err)
	}

	allocs := testing.AllocsPerRun(10, func() { Stats(w, 0.01, 0) })
	if allocs > 2 {
		t.Errorf("Stats allocated %v times on a partly filled window, want only the bounds", allocs)
	}
}

func TestStatsCountsNonFinite(t *testing.T) {
	w, _ := history.New(2, 2, 1)
	seg := dynamo.NewSegment(2, 1, 1)
	seg.Point(0, 0)[0] = math.Inf(1)
	seg.Point(1, 0)[0] = 1
	w.Append(seg)

	if st := Stats(w, 0.1, 0); st.NonFinite != 1 {
		t.Errorf("expected 1 non-finite particle, got %d", st.NonFinite)
	}

	speeds := Speeds(w.Get(), 0.1)
	if !math.IsNaN(speeds[0]) {
		t.Errorf("expected NaN speed for diverged particle, got %v", speeds[0])
	}
}
