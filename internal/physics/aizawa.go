package physics

import "github.com/san-kum/attractor/internal/dynamo"

type Aizawa struct{ a, b, c, d, e, f float64 }

func NewAizawa() *Aizawa { return &Aizawa{0.95, 0.7, 0.6, 3.5, 0.25, 0.1} }

func NewAizawaWith(params map[string]float64) (*Aizawa, error) {
	z := NewAizawa()
	err := applyParams(map[string]*float64{
		"a": &z.a, "b": &z.b, "c": &z.c, "d": &z.d, "e": &z.e, "f": &z.f,
	}, params)
	return z, err
}

func (z *Aizawa) Dim() int     { return 3 }
func (z *Aizawa) Name() string { return "aizawa" }

func (z *Aizawa) Derive(dst, x dynamo.Batch) {
	checkShape(3, dst, x)
	for i := 0; i < x.P; i++ {
		s, out := x.Row(i), dst.Row(i)
		px, py, pz := s[0], s[1], s[2]
		out[0] = (pz-z.b)*px - z.d*py
		out[1] = z.d*px + (pz-z.b)*py
		out[2] = z.c + z.a*pz - pz*pz*pz/3.0 - (px*px+py*py)*(1+z.f*pz) + z.e*pz
	}
}

func (z *Aizawa) Params() map[string]float64 {
	return map[string]float64{"a": z.a, "b": z.b, "c": z.c, "d": z.d, "e": z.e, "f": z.f}
}
