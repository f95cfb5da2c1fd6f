package metrics

import (
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/history"
)

// WindowStats summarises the filled part of a history window.
type WindowStats struct {
	Filled    int
	Lo, Hi    []float64
	NonFinite int
	// MeanSpeed is the mean per-particle distance covered over the last
	// step, divided by dt. Zero until two samples exist.
	MeanSpeed float64
	// Escaped counts finite particles beyond the bound passed to Stats.
	Escaped int
}

// Stats reads the window without copying it. bound <= 0 disables the
// escape count.
func Stats(w *history.Window, dt, bound float64) WindowStats {
	seg := w.Get()
	filled := w.Filled()
	st := WindowStats{Filled: filled}
	if filled == 0 {
		return st
	}

	st.Lo, st.Hi = seg.BoundsOver(seg.S-filled, seg.S)

	last := seg.S - 1
	var speedSum float64
	var speedN int
	for p := 0; p < seg.P; p++ {
		x := seg.Point(p, last)
		if !finite(x) {
			st.NonFinite++
			continue
		}
		if bound > 0 && norm(x) > bound {
			st.Escaped++
		}
		if filled < 2 || dt <= 0 {
			continue
		}
		prev := seg.Point(p, last-1)
		if !finite(prev) {
			continue
		}
		speedSum += dist(x, prev) / dt
		speedN++
	}
	if speedN > 0 {
		st.MeanSpeed = speedSum / float64(speedN)
	}
	return st
}

// Speeds returns each particle's speed over the last step of seg; NaN where
// either sample is non-finite.
func Speeds(seg dynamo.Segment, dt float64) []float64 {
	out := make([]float64, seg.P)
	if seg.S < 2 {
		return out
	}
	for p := range out {
		a, b := seg.Point(p, seg.S-1), seg.Point(p, seg.S-2)
		if !finite(a) || !finite(b) {
			out[p] = math.NaN()
			continue
		}
		out[p] = dist(a, b) / dt
	}
	return out
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func dist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}
