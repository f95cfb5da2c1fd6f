package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/integrators"
)

type Options struct {
	Dt    float64
	Steps int
	// Transient steps run before measuring, so x0 settles onto the attractor.
	Transient int
	// Perturbation is the initial and renormalised separation. Defaults to 1e-8.
	Perturbation float64
}

func (o Options) perturbation() float64 {
	if o.Perturbation > 0 {
		return o.Perturbation
	}
	return 1e-8
}

// LyapunovExponent estimates the largest Lyapunov exponent by integrating a
// reference particle and a perturbed copy as one batch of two. After every
// step the separation is measured and rescaled back to d0 along its current
// direction, so
//
//	λ = Σ ln(|δ_i| / d0) / (n · dt)
//
// Returns NaN if the pair diverges to a non-finite state and -Inf if the
// pair never separates.
func LyapunovExponent(integ *integrators.Integrator, x0 []float64, opts Options) (float64, error) {
	dim := integ.Field().Dim()
	if len(x0) != dim {
		return 0, fmt.Errorf("%w: start of length %d for a %d-dimensional field", dynamo.ErrDimensionMismatch, len(x0), dim)
	}
	if opts.Steps < 1 {
		return 0, fmt.Errorf("%w: %d measurement steps", dynamo.ErrInvalidSteps, opts.Steps)
	}

	if !(opts.Dt > 0) || math.IsInf(opts.Dt, 0) {
		return 0, fmt.Errorf("%w: got %v", dynamo.ErrInvalidTimestep, opts.Dt)
	}

	x := dynamo.NewBatch(1, dim)
	copy(x.Data, x0)
	if opts.Transient > 0 {
		var err error
		if x, err = integ.Advance(x, opts.Transient, opts.Dt); err != nil {
			return 0, err
		}
	}

	d0 := opts.perturbation()
	pair := dynamo.NewBatch(2, dim)
	next := dynamo.NewBatch(2, dim)
	copy(pair.Row(0), x.Row(0))
	copy(pair.Row(1), x.Row(0))
	pair.Row(1)[0] += d0

	field, stepper := integ.Field(), integ.Stepper()
	sumLog := 0.0
	count := 0
	for i := 0; i < opts.Steps; i++ {
		stepper.Step(field, next, pair, opts.Dt)
		pair, next = next, pair
		if pair.NonFinite() > 0 {
			return math.NaN(), nil
		}

		ref, pert := pair.Row(0), pair.Row(1)
		sep := 0.0
		for d := range ref {
			diff := pert[d] - ref[d]
			sep += diff * diff
		}
		sep = math.Sqrt(sep)
		if sep == 0 {
			// collapsed onto the reference within float precision
			copy(pert, ref)
			pert[0] += d0
			continue
		}

		sumLog += math.Log(sep / d0)
		count++
		scale := d0 / sep
		for d := range pert {
			pert[d] = ref[d] + (pert[d]-ref[d])*scale
		}
	}

	if count == 0 {
		return math.Inf(-1), nil
	}
	return sumLog / (float64(count) * opts.Dt), nil
}
