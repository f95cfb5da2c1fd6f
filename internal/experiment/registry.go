package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/integrators"
	"github.com/san-kum/attractor/internal/physics"
)

type FieldFactory func(params map[string]float64) (dynamo.Field, error)

type Registry struct {
	fields      map[string]FieldFactory
	integrators map[string]func() integrators.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		fields:      make(map[string]FieldFactory),
		integrators: make(map[string]func() integrators.Stepper),
	}

	r.RegisterField("lorenz", func(p map[string]float64) (dynamo.Field, error) { return physics.NewLorenzWith(p) })
	r.RegisterField("rossler", func(p map[string]float64) (dynamo.Field, error) { return physics.NewRosslerWith(p) })
	r.RegisterField("thomas", func(p map[string]float64) (dynamo.Field, error) { return physics.NewThomasWith(p) })
	r.RegisterField("aizawa", func(p map[string]float64) (dynamo.Field, error) { return physics.NewAizawaWith(p) })
	r.RegisterField("gravity", func(p map[string]float64) (dynamo.Field, error) { return physics.NewGravityWith(p) })

	r.integrators["euler"] = func() integrators.Stepper { return integrators.NewEuler() }
	r.integrators["rk4"] = func() integrators.Stepper { return integrators.NewRK4() }

	return r
}

// RegisterField adds or replaces an attractor.
func (r *Registry) RegisterField(name string, fn FieldFactory) { r.fields[name] = fn }

func (r *Registry) GetField(name string, params map[string]float64) (dynamo.Field, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown attractor: %s", name)
	}
	f, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("attractor %s: %w", name, err)
	}
	return f, nil
}

func (r *Registry) GetIntegrator(name string) (integrators.Stepper, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListAttractors() []string { return sortedKeys(r.fields) }

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
