package dynamo

import "errors"

// Domain errors for engine construction and calls.
var (
	// ErrDimensionMismatch indicates a batch, segment or field of the wrong shape.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrInvalidTimestep indicates a non-positive or non-finite dt.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive")

	// ErrInvalidSteps indicates a step count below one.
	ErrInvalidSteps = errors.New("dynamo: step count must be at least 1")

	// ErrInvalidCapacity indicates a history window narrower than one step.
	ErrInvalidCapacity = errors.New("dynamo: window capacity must be at least 1")

	// ErrInvalidParticles indicates a particle count below one.
	ErrInvalidParticles = errors.New("dynamo: particle count must be at least 1")

	// ErrEmptySuperposition indicates a superposition built from no fields.
	ErrEmptySuperposition = errors.New("dynamo: superposition needs at least one field")

	// ErrInvalidParameter indicates an unknown or out of range field parameter.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")
)
