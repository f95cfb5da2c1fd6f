package physics

import "github.com/san-kum/attractor/internal/dynamo"

type Rossler struct{ a, b, c float64 }

func NewRossler() *Rossler { return &Rossler{0.2, 0.2, 5.7} }

func NewRosslerWith(params map[string]float64) (*Rossler, error) {
	r := NewRossler()
	err := applyParams(map[string]*float64{"a": &r.a, "b": &r.b, "c": &r.c}, params)
	return r, err
}

func (r *Rossler) Dim() int     { return 3 }
func (r *Rossler) Name() string { return "rossler" }

// Derive calculates the Rossler attractor derivatives.
func (r *Rossler) Derive(dst, x dynamo.Batch) {
	checkShape(3, dst, x)
	for i := 0; i < x.P; i++ {
		s, d := x.Row(i), dst.Row(i)
		d[0], d[1], d[2] = -(s[1] + s[2]), s[0]+r.a*s[1], r.b+s[2]*(s[0]-r.c)
	}
}

func (r *Rossler) Params() map[string]float64 {
	return map[string]float64{"a": r.a, "b": r.b, "c": r.c}
}
