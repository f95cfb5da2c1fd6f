package integrators

import "github.com/san-kum/attractor/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta stepper. It keeps scratch
// buffers between steps and so belongs to a single integrator.
type RK4 struct {
	k1, k2, k3, k4 dynamo.Batch
	scratch        dynamo.Batch
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(p, d int) {
	if r.k1.P != p || r.k1.D != d {
		r.k1 = dynamo.NewBatch(p, d)
		r.k2 = dynamo.NewBatch(p, d)
		r.k3 = dynamo.NewBatch(p, d)
		r.k4 = dynamo.NewBatch(p, d)
		r.scratch = dynamo.NewBatch(p, d)
	}
}

func (r *RK4) Step(f dynamo.Field, dst, x dynamo.Batch, dt float64) {
	r.ensureScratch(x.P, x.D)
	n := len(x.Data)

	f.Derive(r.k1, x)

	for i := 0; i < n; i++ {
		r.scratch.Data[i] = x.Data[i] + dt*0.5*r.k1.Data[i]
	}
	f.Derive(r.k2, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch.Data[i] = x.Data[i] + dt*0.5*r.k2.Data[i]
	}
	f.Derive(r.k3, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch.Data[i] = x.Data[i] + dt*r.k3.Data[i]
	}
	f.Derive(r.k4, r.scratch)

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		dst.Data[i] = x.Data[i] + dt6*(r.k1.Data[i]+2*r.k2.Data[i]+2*r.k3.Data[i]+r.k4.Data[i])
	}
}
