package sim

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/history"
	"github.com/san-kum/attractor/internal/integrators"
)

// Session couples a Streamer to a history Window: every Advance integrates k
// new steps and folds them into the window.
type Session struct {
	id        string
	name      string
	integ     *integrators.Integrator
	streamer  *Streamer
	window    *history.Window
	observers []Observer
	logger    *slog.Logger
	steps     int
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// WithName labels the session in logs and metrics.
func WithName(name string) Option {
	return func(s *Session) { s.name = name }
}

// NewSession builds a session in two phases. The window is allocated first, so
// a bad capacity fails before any integration. Then the optional warm-up runs
// the integrator directly from initial, bypassing the window. Finally the
// streamer is created from the resulting state and, if warm-up ran, the
// window is pre-filled with one Advance of its full capacity.
func NewSession(integ *integrators.Integrator, initial dynamo.Batch, cfg Config, opts ...Option) (*Session, error) {
	if cfg.Warmup < 0 {
		return nil, fmt.Errorf("%w: warm-up of %d steps", dynamo.ErrInvalidSteps, cfg.Warmup)
	}

	s := &Session{
		id:     uuid.NewString(),
		integ:  integ,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = fieldName(integ.Field())
	}
	s.logger = s.logger.With("session", s.id, "field", s.name)

	window, err := history.New(initial.P, cfg.Capacity, initial.D)
	if err != nil {
		return nil, err
	}

	start := initial
	if cfg.Warmup > 0 {
		t0 := time.Now()
		warmed, err := integ.Advance(initial, cfg.Warmup, cfg.Dt)
		if err != nil {
			return nil, fmt.Errorf("warm-up: %w", err)
		}
		start = warmed
		s.logger.Debug("warm-up complete", "steps", cfg.Warmup, "elapsed", time.Since(t0), "nonfinite", warmed.NonFinite())
	}

	streamer, err := NewStreamer(integ, start, cfg.Dt)
	if err != nil {
		return nil, err
	}
	s.streamer, s.window = streamer, window

	if cfg.Warmup > 0 {
		seg, err := streamer.Advance(cfg.Capacity)
		if err != nil {
			return nil, fmt.Errorf("pre-fill: %w", err)
		}
		if err := window.Append(seg); err != nil {
			return nil, fmt.Errorf("pre-fill: %w", err)
		}
		s.steps = cfg.Capacity
		s.logger.Debug("window pre-filled", "capacity", cfg.Capacity)
	}

	s.logger.Debug("session ready", "particles", start.P, "dim", start.D, "dt", cfg.Dt, "capacity", cfg.Capacity)
	return s, nil
}

// Advance integrates k more steps, appends them to the window and returns the
// window view. Calls must be serialised by the caller.
func (s *Session) Advance(k int) (dynamo.Segment, error) {
	t0 := time.Now()
	seg, err := s.streamer.Advance(k)
	if err != nil {
		return dynamo.Segment{}, err
	}
	if err := s.window.Append(seg); err != nil {
		return dynamo.Segment{}, err
	}
	s.steps += k
	view := s.window.Get()
	elapsed := time.Since(t0)
	for _, o := range s.observers {
		o.OnAdvance(s, seg, view, elapsed)
	}
	return view, nil
}

func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Session) ID() string              { return s.id }
func (s *Session) Name() string            { return s.name }
func (s *Session) Field() dynamo.Field     { return s.integ.Field() }
func (s *Session) Window() *history.Window { return s.window }
func (s *Session) State() dynamo.Batch     { return s.streamer.State() }
func (s *Session) Dt() float64             { return s.streamer.Dt() }

// Steps is the number of steps produced since the session became visible,
// including the pre-fill.
func (s *Session) Steps() int { return s.steps }

// Time is the simulated time covered by Steps.
func (s *Session) Time() float64 { return float64(s.steps) * s.streamer.Dt() }

func fieldName(f dynamo.Field) string {
	if n, ok := f.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", f)
}
