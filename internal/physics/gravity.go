package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Gravity applies a constant force along one axis of a state of any
// dimension. On its own it is a drift; it exists to be superposed on an
// attractor.
type Gravity struct {
	force float64
	dims  int
	axis  int
}

func NewGravity(force float64, dims, axis int) (*Gravity, error) {
	if dims < 1 {
		return nil, fmt.Errorf("%w: gravity dims=%d", dynamo.ErrInvalidParameter, dims)
	}
	if axis < 0 || axis >= dims {
		return nil, fmt.Errorf("%w: gravity axis %d outside [0, %d)", dynamo.ErrInvalidParameter, axis, dims)
	}
	return &Gravity{force: force, dims: dims, axis: axis}, nil
}

// NewGravityWith reads force, dims and axis; dims and axis must be whole
// numbers.
func NewGravityWith(params map[string]float64) (*Gravity, error) {
	force, dims, axis := -1.0, 3.0, 2.0
	if err := applyParams(map[string]*float64{"force": &force, "dims": &dims, "axis": &axis}, params); err != nil {
		return nil, err
	}
	for name, v := range map[string]float64{"dims": dims, "axis": axis} {
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: gravity %s=%v is not a whole number", dynamo.ErrInvalidParameter, name, v)
		}
	}
	return NewGravity(force, int(dims), int(axis))
}

func (g *Gravity) Dim() int     { return g.dims }
func (g *Gravity) Name() string { return "gravity" }

func (g *Gravity) Derive(dst, x dynamo.Batch) {
	checkShape(g.dims, dst, x)
	for i := range dst.Data {
		dst.Data[i] = 0
	}
	for i := 0; i < dst.P; i++ {
		dst.Row(i)[g.axis] = g.force
	}
}

func (g *Gravity) Params() map[string]float64 {
	return map[string]float64{"force": g.force, "dims": float64(g.dims), "axis": float64(g.axis)}
}
