package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/integrators"
)

// Streamer turns repeated integrations into one continuous trajectory. It
// holds the most recent batch and a fixed dt; each Advance continues from
// that batch.
type Streamer struct {
	integ *integrators.Integrator
	state dynamo.Batch
	dt    float64
}

func NewStreamer(integ *integrators.Integrator, initial dynamo.Batch, dt float64) (*Streamer, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: got %v", dynamo.ErrInvalidTimestep, dt)
	}
	if initial.P < 1 {
		return nil, fmt.Errorf("%w: got %d", dynamo.ErrInvalidParticles, initial.P)
	}
	if dim := integ.Field().Dim(); initial.D != dim || len(initial.Data) != initial.P*initial.D {
		return nil, fmt.Errorf("%w: initial batch is (%d, %d), field dimension %d", dynamo.ErrDimensionMismatch, initial.P, initial.D, dim)
	}
	return &Streamer{integ: integ, state: initial.Clone(), dt: dt}, nil
}

// Advance returns the next k steps, all strictly after the held state, and
// moves the held state to the last of them.
func (s *Streamer) Advance(k int) (dynamo.Segment, error) {
	if k < 1 {
		return dynamo.Segment{}, fmt.Errorf("%w: advance by %d", dynamo.ErrInvalidSteps, k)
	}
	seg, err := s.integ.Continue(s.state, k, s.dt)
	if err != nil {
		return dynamo.Segment{}, err
	}
	seg.StepInto(s.state, k-1)
	return seg, nil
}

// State returns a copy of the held batch.
func (s *Streamer) State() dynamo.Batch { return s.state.Clone() }

func (s *Streamer) Dt() float64 { return s.dt }

// Reset replaces the held batch; its shape must not change.
func (s *Streamer) Reset(state dynamo.Batch) error {
	if !state.SameShape(s.state) || len(state.Data) != len(s.state.Data) {
		return fmt.Errorf("%w: reset to (%d, %d), held (%d, %d)", dynamo.ErrDimensionMismatch, state.P, state.D, s.state.P, s.state.D)
	}
	copy(s.state.Data, state.Data)
	return nil
}
