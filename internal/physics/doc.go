// Package physics provides the vector fields the engine integrates.
//
// Each field implements [dynamo.Field] over a whole batch of particles:
//
//   - [Lorenz]: butterfly attractor
//   - [Rossler]: single-scroll spiral attractor
//   - [Thomas]: cyclically symmetric attractor
//   - [Aizawa]: torus-like attractor
//   - [Gravity]: constant force along one axis, for composition
//   - [Superposition]: elementwise sum of fields of equal dimension
//
// Coefficients are fixed at construction and exposed through
// [dynamo.Parameterized]. Fields keep no state between calls, so one field
// may drive any number of sessions.
//
// # Composition
//
//	grav, _ := physics.NewGravity(-1, 3, 2)
//	field, err := physics.NewSuperposition(physics.NewThomas(), grav)
package physics
