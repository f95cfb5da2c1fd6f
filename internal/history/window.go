// Package history keeps a bounded, chronologically ordered view of the most
// recent trajectory steps for a fixed set of particles.
//
// A [Window] of capacity W always exposes exactly W steps per particle, index
// 0 oldest and W-1 newest. Appending shifts the retained steps toward the
// front and writes the new ones at the back, in place, so a display loop can
// feed it every frame without allocating.
package history

import (
	"fmt"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Window is a shift-and-copy buffer of shape (P, W, D). It is not safe for
// concurrent use.
type Window struct {
	buf   dynamo.Segment
	total int
}

// New returns a zero-filled window of p particles, capacity w and dimension d.
func New(p, w, d int) (*Window, error) {
	if p < 1 {
		return nil, fmt.Errorf("%w: got %d", dynamo.ErrInvalidParticles, p)
	}
	if w < 1 {
		return nil, fmt.Errorf("%w: got %d", dynamo.ErrInvalidCapacity, w)
	}
	if d < 1 {
		return nil, fmt.Errorf("%w: dimension %d", dynamo.ErrDimensionMismatch, d)
	}
	return &Window{buf: dynamo.NewSegment(p, w, d)}, nil
}

func (w *Window) Particles() int { return w.buf.P }
func (w *Window) Capacity() int  { return w.buf.S }
func (w *Window) Dim() int       { return w.buf.D }

// Total is the number of steps appended over the window's lifetime.
func (w *Window) Total() int { return w.total }

// Filled is the number of trailing slots holding appended steps. The leading
// Capacity()-Filled() slots still hold the initial zeros.
func (w *Window) Filled() int {
	if w.total > w.buf.S {
		return w.buf.S
	}
	return w.total
}

// Append folds seg into the window. A segment of k < W steps drops the k
// oldest steps; a segment of k >= W replaces the window with its newest W
// steps. An empty segment is a no-op.
func (w *Window) Append(seg dynamo.Segment) error {
	if seg.S == 0 {
		return nil
	}
	if seg.P != w.buf.P || seg.D != w.buf.D {
		return fmt.Errorf("%w: segment (%d, %d, %d) into window (%d, %d, %d)",
			dynamo.ErrDimensionMismatch, seg.P, seg.S, seg.D, w.buf.P, w.buf.S, w.buf.D)
	}

	k, capacity, d := seg.S, w.buf.S, w.buf.D
	for p := 0; p < w.buf.P; p++ {
		dst, src := w.buf.Trail(p), seg.Trail(p)
		if k >= capacity {
			copy(dst, src[(k-capacity)*d:])
			continue
		}
		keep := (capacity - k) * d
		copy(dst[:keep], dst[k*d:])
		copy(dst[keep:], src)
	}
	w.total += k
	return nil
}

// Get returns a read view of the full window. The view is overwritten by the
// next Append; use Snapshot to keep a copy.
func (w *Window) Get() dynamo.Segment { return w.buf }

// Snapshot returns a copy of the window.
func (w *Window) Snapshot() dynamo.Segment { return w.buf.Clone() }

// Latest copies the newest step of every particle.
func (w *Window) Latest() dynamo.Batch { return w.buf.Step(w.buf.S - 1) }

// Reset zeroes the window and its step count.
func (w *Window) Reset() {
	for i := range w.buf.Data {
		w.buf.Data[i] = 0
	}
	w.total = 0
}
