// Package dynamo provides the numeric primitives shared by every part of the
// attractor engine.
//
//   - [Batch]: P particles of dimension D at one instant (a ParticleBatch)
//   - [Segment]: P particles over S consecutive steps (a trajectory segment)
//   - [Field]: a vector field mapping a batch to its instantaneous derivative
//
// Batches are row-major, segments are particle-major: the trail of particle p
// is one contiguous run of S*D values, which keeps window shifts and trail
// rendering to plain slice copies.
//
// # Example
//
//	field := physics.NewLorenz()
//	x := dynamo.NewBatch(1000, field.Dim())
//	dx := dynamo.Derivative(field, x)
//
// # Thread Safety
//
// Fields are stateless and may be shared between goroutines. Batches and
// segments are plain values over a backing slice and are NOT safe for
// concurrent mutation.
package dynamo
