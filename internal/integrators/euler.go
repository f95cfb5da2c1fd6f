package integrators

import "github.com/san-kum/attractor/internal/dynamo"

// Euler is the explicit first-order stepper: next = x + f(x)*dt.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(f dynamo.Field, dst, x dynamo.Batch, dt float64) {
	f.Derive(dst, x)
	for i, v := range x.Data {
		dst.Data[i] = v + dst.Data[i]*dt
	}
}
