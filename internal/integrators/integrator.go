// Package integrators advances particle batches through a vector field.
//
// A [Stepper] performs one fixed-size step; [Integrator] repeats it to build a
// whole trajectory segment. Step 0 of every segment is the initial batch
// itself, so a segment of S steps holds S-1 applications of the stepper.
package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Stepper advances x by one step of size dt into dst. dst and x never alias.
type Stepper interface {
	Step(f dynamo.Field, dst, x dynamo.Batch, dt float64)
}

// Integrator binds a field to a stepper. It is not safe for concurrent use
// because steppers such as RK4 keep scratch state.
type Integrator struct {
	field   dynamo.Field
	stepper Stepper
	cur     dynamo.Batch
	next    dynamo.Batch
}

func New(field dynamo.Field, stepper Stepper) *Integrator {
	if stepper == nil {
		stepper = NewEuler()
	}
	return &Integrator{field: field, stepper: stepper}
}

func (in *Integrator) Field() dynamo.Field { return in.field }
func (in *Integrator) Stepper() Stepper    { return in.stepper }

// Integrate returns a (P, steps, D) segment whose step 0 equals initial.
func (in *Integrator) Integrate(initial dynamo.Batch, steps int, dt float64) (dynamo.Segment, error) {
	if err := in.validate(initial, steps, dt); err != nil {
		return dynamo.Segment{}, err
	}

	seg := dynamo.NewSegment(initial.P, steps, initial.D)
	seg.SetStep(0, initial)

	in.ensureBuffers(initial.P, initial.D)
	copy(in.cur.Data, initial.Data)
	for s := 1; s < steps; s++ {
		in.stepper.Step(in.field, in.next, in.cur, dt)
		seg.SetStep(s, in.next)
		in.cur, in.next = in.next, in.cur
	}
	return seg, nil
}

// Continue returns the k steps that follow x, excluding x itself. The result
// equals Integrate(x, k+1, dt) without its step 0, computed without the extra
// copy.
func (in *Integrator) Continue(x dynamo.Batch, k int, dt float64) (dynamo.Segment, error) {
	if err := in.validate(x, k, dt); err != nil {
		return dynamo.Segment{}, err
	}

	seg := dynamo.NewSegment(x.P, k, x.D)
	in.ensureBuffers(x.P, x.D)
	copy(in.cur.Data, x.Data)
	for s := 0; s < k; s++ {
		in.stepper.Step(in.field, in.next, in.cur, dt)
		seg.SetStep(s, in.next)
		in.cur, in.next = in.next, in.cur
	}
	return seg, nil
}

// Advance applies the stepper n times to x and returns only the final batch.
// It matches the last step of Integrate(x, n+1, dt) without materialising the
// trajectory.
func (in *Integrator) Advance(x dynamo.Batch, n int, dt float64) (dynamo.Batch, error) {
	if err := in.validate(x, n+1, dt); err != nil {
		return dynamo.Batch{}, err
	}
	in.ensureBuffers(x.P, x.D)
	copy(in.cur.Data, x.Data)
	for s := 0; s < n; s++ {
		in.stepper.Step(in.field, in.next, in.cur, dt)
		in.cur, in.next = in.next, in.cur
	}
	return in.cur.Clone(), nil
}

func (in *Integrator) validate(x dynamo.Batch, steps int, dt float64) error {
	if steps < 1 {
		return fmt.Errorf("%w: got %d", dynamo.ErrInvalidSteps, steps)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: got %v", dynamo.ErrInvalidTimestep, dt)
	}
	if x.P < 1 {
		return fmt.Errorf("%w: got %d", dynamo.ErrInvalidParticles, x.P)
	}
	if x.D != in.field.Dim() || len(x.Data) != x.P*x.D {
		return fmt.Errorf("%w: batch is (%d, %d), field dimension %d", dynamo.ErrDimensionMismatch, x.P, x.D, in.field.Dim())
	}
	return nil
}

func (in *Integrator) ensureBuffers(p, d int) {
	if in.cur.P != p || in.cur.D != d {
		in.cur = dynamo.NewBatch(p, d)
		in.next = dynamo.NewBatch(p, d)
	}
}
