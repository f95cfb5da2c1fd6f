package physics

import (
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Thomas is Thomas' cyclically symmetric attractor. The damping a moves the
// system from a stable fixed point (a > 0.208) through limit cycles into chaos
// and, as a approaches zero, a deterministic random walk.
type Thomas struct{ a float64 }

func NewThomas() *Thomas { return &Thomas{0.19} }

func NewThomasWith(params map[string]float64) (*Thomas, error) {
	t := NewThomas()
	err := applyParams(map[string]*float64{"a": &t.a}, params)
	return t, err
}

func (t *Thomas) Dim() int     { return 3 }
func (t *Thomas) Name() string { return "thomas" }

func (t *Thomas) Derive(dst, x dynamo.Batch) {
	checkShape(3, dst, x)
	for i := 0; i < x.P; i++ {
		s, d := x.Row(i), dst.Row(i)
		d[0], d[1], d[2] = -t.a*s[0]+math.Sin(s[1]), -t.a*s[1]+math.Sin(s[2]), -t.a*s[2]+math.Sin(s[0])
	}
}

func (t *Thomas) Params() map[string]float64 { return map[string]float64{"a": t.a} }
