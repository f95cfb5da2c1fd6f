package sim

import (
	"time"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Observer is notified after every Session.Advance. seg is the freshly
// produced segment and window the updated history view; neither may be
// retained past the call.
type Observer interface {
	OnAdvance(s *Session, seg, window dynamo.Segment, elapsed time.Duration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *Session, seg, window dynamo.Segment, elapsed time.Duration)

func (f ObserverFunc) OnAdvance(s *Session, seg, window dynamo.Segment, elapsed time.Duration) {
	f(s, seg, window, elapsed)
}

// Config holds the numeric settings of a session.
type Config struct {
	Dt       float64
	Capacity int
	// Warmup is the number of steps integrated before the session becomes
	// visible. When positive the window is also pre-filled with Capacity steps.
	Warmup int
}
