package physics

import "github.com/san-kum/attractor/internal/dynamo"

type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz() *Lorenz { return &Lorenz{10.0, 28.0, 8.0 / 3.0} }

// NewLorenzWith starts from the classic coefficients and applies params
// (sigma, rho, beta).
func NewLorenzWith(params map[string]float64) (*Lorenz, error) {
	l := NewLorenz()
	err := applyParams(map[string]*float64{"sigma": &l.sigma, "rho": &l.rho, "beta": &l.beta}, params)
	return l, err
}

func (l *Lorenz) Dim() int     { return 3 }
func (l *Lorenz) Name() string { return "lorenz" }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(dst, x dynamo.Batch) {
	checkShape(3, dst, x)
	for i := 0; i < x.P; i++ {
		s, d := x.Row(i), dst.Row(i)
		d[0], d[1], d[2] = l.sigma*(s[1]-s[0]), s[0]*(l.rho-s[2])-s[1], s[0]*s[1]-l.beta*s[2]
	}
}

func (l *Lorenz) Params() map[string]float64 {
	return map[string]float64{"sigma": l.sigma, "rho": l.rho, "beta": l.beta}
}
