// Package starts generates initial particle batches.
//
// Every attractor has a recommended generator placing particles near its
// basin; [Recommended] looks it up by attractor name and falls back to
// [DefaultKind] (a normal cloud of scale 3, suited to Thomas) for any name it
// does not know.
package starts

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Generator returns n particles.
type Generator interface {
	Generate(n int) dynamo.Batch
}

// Normal draws each component from N(0, Scale^2).
type Normal struct {
	Dim   int
	Scale float64
	rng   *rand.Rand
}

func NewNormal(dim int, scale float64, rng *rand.Rand) *Normal {
	return &Normal{Dim: dim, Scale: scale, rng: rng}
}

func (g *Normal) Generate(n int) dynamo.Batch {
	b := dynamo.NewBatch(n, g.Dim)
	for i := range b.Data {
		b.Data[i] = g.rng.NormFloat64() * g.Scale
	}
	return b
}

// Box draws each component uniformly from [Min[d], Max[d]).
type Box struct {
	Min, Max []float64
	rng      *rand.Rand
}

func NewBox(min, max []float64, rng *rand.Rand) (*Box, error) {
	if len(min) == 0 || len(min) != len(max) {
		return nil, fmt.Errorf("%w: box bounds of length %d and %d", dynamo.ErrDimensionMismatch, len(min), len(max))
	}
	for d := range min {
		if min[d] > max[d] {
			return nil, fmt.Errorf("%w: box min %v above max %v on axis %d", dynamo.ErrInvalidParameter, min[d], max[d], d)
		}
	}
	return &Box{Min: append([]float64(nil), min...), Max: append([]float64(nil), max...), rng: rng}, nil
}

func (g *Box) Generate(n int) dynamo.Batch {
	b := dynamo.NewBatch(n, len(g.Min))
	for i := 0; i < n; i++ {
		row := b.Row(i)
		for d := range row {
			row[d] = g.Min[d] + g.rng.Float64()*(g.Max[d]-g.Min[d])
		}
	}
	return b
}

// DefaultKind is the table entry used for names without their own entry.
const DefaultKind = "thomas"

// Spec describes a generator without binding a random source.
type Spec struct {
	Kind     string // "normal" or "box"
	Scale    float64
	Min, Max []float64
}

// recommended is keyed by attractor name.
var recommended = map[string]Spec{
	"lorenz":  {Kind: "box", Min: []float64{-10, -10, 10}, Max: []float64{10, 10, 20}},
	"rossler": {Kind: "box", Min: []float64{-10, -10, 0}, Max: []float64{10, 10, 20}},
	"aizawa":  {Kind: "normal", Scale: 0.5},
	"thomas":  {Kind: "normal", Scale: 3.0},
}

// RecommendedSpec returns the entry for name, or the DefaultKind entry.
func RecommendedSpec(name string) (Spec, bool) {
	s, ok := recommended[name]
	if !ok {
		return recommended[DefaultKind], false
	}
	return s, true
}

// Recommended builds the recommended generator for an attractor of dimension
// dim. Normal entries adapt to any dim; box entries require a matching one.
func Recommended(name string, dim int, rng *rand.Rand) (Generator, error) {
	spec, _ := RecommendedSpec(name)
	return spec.Build(dim, rng)
}

// Build binds the spec to a random source for particles of dimension dim.
func (s Spec) Build(dim int, rng *rand.Rand) (Generator, error) {
	switch s.Kind {
	case "normal":
		scale := s.Scale
		if scale == 0 {
			scale = 1
		}
		return NewNormal(dim, scale, rng), nil
	case "box":
		if len(s.Min) != dim {
			return nil, fmt.Errorf("%w: box of dimension %d for a %d-dimensional field", dynamo.ErrDimensionMismatch, len(s.Min), dim)
		}
		return NewBox(s.Min, s.Max, rng)
	default:
		return nil, fmt.Errorf("unknown starting-state kind: %q", s.Kind)
	}
}
