package dynamo

import (
	"fmt"
	"math"
)

// Field is a stateless vector field. Derive writes the derivative of every
// particle in x into dst; both batches have shape (P, Dim()).
type Field interface {
	Dim() int
	Derive(dst, x Batch)
}

// Parameterized is implemented by fields with named coefficients.
type Parameterized interface {
	Params() map[string]float64
}

// Batch is a (P, D) array of particle states.
type Batch struct {
	P, D int
	Data []float64
}

func NewBatch(p, d int) Batch {
	return Batch{P: p, D: d, Data: make([]float64, p*d)}
}

// BatchFrom copies rows into a new batch. Every row must have the same length.
func BatchFrom(rows [][]float64) (Batch, error) {
	if len(rows) == 0 {
		return Batch{}, ErrInvalidParticles
	}
	d := len(rows[0])
	b := NewBatch(len(rows), d)
	for i, r := range rows {
		if len(r) != d {
			return Batch{}, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(r), d)
		}
		copy(b.Row(i), r)
	}
	return b, nil
}

// Row returns a view of particle i.
func (b Batch) Row(i int) []float64 { return b.Data[i*b.D : (i+1)*b.D] }

func (b Batch) At(i, j int) float64 { return b.Data[i*b.D+j] }

func (b Batch) Clone() Batch {
	c := Batch{P: b.P, D: b.D, Data: make([]float64, len(b.Data))}
	copy(c.Data, b.Data)
	return c
}

// SameShape reports whether o has the shape of b.
func (b Batch) SameShape(o Batch) bool { return b.P == o.P && b.D == o.D }

// NonFinite counts particles holding a NaN or Inf component.
func (b Batch) NonFinite() int {
	n := 0
	for i := 0; i < b.P; i++ {
		for _, v := range b.Row(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				n++
				break
			}
		}
	}
	return n
}

// Derivative evaluates f at x into a freshly allocated batch.
func Derivative(f Field, x Batch) Batch {
	dst := NewBatch(x.P, x.D)
	f.Derive(dst, x)
	return dst
}

// Segment is a (P, S, D) trajectory, stored particle-major.
type Segment struct {
	P, S, D int
	Data    []float64
}

func NewSegment(p, s, d int) Segment {
	return Segment{P: p, S: s, D: d, Data: make([]float64, p*s*d)}
}

// Trail returns a view of all S steps of particle p.
func (g Segment) Trail(p int) []float64 {
	n := g.S * g.D
	return g.Data[p*n : (p+1)*n]
}

// Point returns a view of particle p at step s.
func (g Segment) Point(p, s int) []float64 {
	off := (p*g.S + s) * g.D
	return g.Data[off : off+g.D]
}

func (g Segment) At(p, s, d int) float64 { return g.Data[(p*g.S+s)*g.D+d] }

// Step copies step s of every particle into a new batch.
func (g Segment) Step(s int) Batch {
	b := NewBatch(g.P, g.D)
	g.StepInto(b, s)
	return b
}

// StepInto copies step s of every particle into dst.
func (g Segment) StepInto(dst Batch, s int) {
	for p := 0; p < g.P; p++ {
		copy(dst.Row(p), g.Point(p, s))
	}
}

// SetStep writes b into step s.
func (g Segment) SetStep(s int, b Batch) {
	for p := 0; p < g.P; p++ {
		copy(g.Point(p, s), b.Row(p))
	}
}

// Slice copies steps [from, to) into a new segment.
func (g Segment) Slice(from, to int) Segment {
	out := NewSegment(g.P, to-from, g.D)
	for p := 0; p < g.P; p++ {
		copy(out.Trail(p), g.Trail(p)[from*g.D:to*g.D])
	}
	return out
}

func (g Segment) Clone() Segment {
	c := Segment{P: g.P, S: g.S, D: g.D, Data: make([]float64, len(g.Data))}
	copy(c.Data, g.Data)
	return c
}

// Bounds returns per-dimension minimum and maximum over every finite sample.
// Both slices are empty when the segment holds no finite value.
func (g Segment) Bounds() (lo, hi []float64) { return g.BoundsOver(0, g.S) }

// BoundsOver is Bounds restricted to steps [from, to), read in place.
func (g Segment) BoundsOver(from, to int) (lo, hi []float64) {
	lo = make([]float64, g.D)
	hi = make([]float64, g.D)
	seen := false
	for p := 0; p < g.P; p++ {
		for s := from; s < to; s++ {
			pt := g.Point(p, s)
			if !finite(pt) {
				continue
			}
			if !seen {
				copy(lo, pt)
				copy(hi, pt)
				seen = true
				continue
			}
			for d, v := range pt {
				lo[d] = math.Min(lo[d], v)
				hi[d] = math.Max(hi[d], v)
			}
		}
	}
	if !seen {
		return nil, nil
	}
	return lo, hi
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
