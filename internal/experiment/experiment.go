package experiment

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/integrators"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
	"github.com/san-kum/attractor/internal/starts"
)

// Field builds the configured attractor, summed with any superposed fields.
func (r *Registry) Field(cfg *config.Config) (dynamo.Field, error) {
	base, err := r.GetField(cfg.Attractor.Name, cfg.Attractor.Params)
	if err != nil {
		return nil, err
	}
	if len(cfg.Superpose) == 0 {
		return base, nil
	}

	fields := []dynamo.Field{base}
	for _, fc := range cfg.Superpose {
		f, err := r.GetField(fc.Name, fc.Params)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return physics.NewSuperposition(fields...)
}

// Integrator pairs the configured field with the configured stepper.
func (r *Registry) Integrator(cfg *config.Config) (*integrators.Integrator, error) {
	field, err := r.Field(cfg)
	if err != nil {
		return nil, err
	}
	stepper, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return integrators.New(field, stepper), nil
}

// Start generates cfg.Particles starting states for a field of dimension dim.
func Start(cfg *config.Config, dim int) (dynamo.Batch, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	var spec starts.Spec
	switch cfg.Start.Kind {
	case "", "recommended":
		spec, _ = starts.RecommendedSpec(cfg.Attractor.Name)
	case "normal":
		spec = starts.Spec{Kind: "normal", Scale: cfg.Start.Scale}
	case "box":
		spec = starts.Spec{Kind: "box", Min: cfg.Start.Min, Max: cfg.Start.Max}
	default:
		return dynamo.Batch{}, fmt.Errorf("unknown start kind: %s", cfg.Start.Kind)
	}

	gen, err := spec.Build(dim, rng)
	if err != nil {
		return dynamo.Batch{}, err
	}
	return gen.Generate(cfg.Particles), nil
}

// Build validates cfg and returns a ready session: the field and stepper
// come from the registry, the starting batch from cfg.Start.
func (r *Registry) Build(cfg *config.Config, opts ...sim.Option) (*sim.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	integ, err := r.Integrator(cfg)
	if err != nil {
		return nil, err
	}
	initial, err := Start(cfg, integ.Field().Dim())
	if err != nil {
		return nil, err
	}

	simCfg := sim.Config{
		Dt:       cfg.Dt,
		Capacity: cfg.Window,
		Warmup:   cfg.Warmup,
	}
	return sim.NewSession(integ, initial, simCfg, opts...)
}
