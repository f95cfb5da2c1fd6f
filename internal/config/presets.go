package config

import "sort"

// Presets are the named configurations. The plain names favour a particle
// cloud for the live view; the _single variants follow one long trail.
var Presets = map[string]*Config{
	"lorenz": {
		Attractor: FieldConfig{Name: "lorenz"}, Integrator: "euler", Dt: 0.001,
		Particles: 500, Window: 200, Warmup: 10000, Steps: 50000, StepsPerFrame: 10, FPS: 30,
		Start: StartConfig{Kind: "recommended"},
	},
	"lorenz_single": {
		Attractor: FieldConfig{Name: "lorenz"}, Integrator: "euler", Dt: 0.01,
		Particles: 1, Window: 10000, Steps: 10000, StepsPerFrame: 5, FPS: 30,
		Start: StartConfig{Kind: "recommended"},
	},
	"thomas": {
		Attractor: FieldConfig{Name: "thomas"}, Integrator: "euler", Dt: 0.03,
		Particles: 500, Window: 200, Warmup: 10000, Steps: 50000, StepsPerFrame: 2, FPS: 30,
		Start: StartConfig{Kind: "recommended"},
	},
	"thomas09": {
		Attractor: FieldConfig{Name: "thomas", Params: map[string]float64{"a": 0.09}}, Integrator: "euler", Dt: 0.03,
		Particles: 500, Window: 200, Warmup: 10000, Steps: 50000, StepsPerFrame: 2, FPS: 30,
		Start: StartConfig{Kind: "recommended"},
	},
	"rossler": {
		Attractor: FieldConfig{Name: "rossler"}, Integrator: "euler", Dt: 0.01,
		Particles: 500, Window: 200, Warmup: 10000, Steps: 50000, StepsPerFrame: 5, FPS: 30,
		Start: StartConfig{Kind: "recommended"},
	},
	"rossler_single": {
		Attractor: FieldConfig{Name: "rossler"}, Integrator: "euler", Dt: 0.01,
		Particles: 1, Window: 10000, Steps: 20000, StepsPerFrame: 5, FPS: 30,
		Start: StartConfig{Kind: "recommended"},
	},
	"aizawa": {
		Attractor: FieldConfig{Name: "aizawa"}, Integrator: "euler", Dt: 0.01,
		Particles: 500, Window: 200, Warmup: 10000, Steps: 60000, StepsPerFrame: 5, FPS: 30,
		Start: StartConfig{Kind: "recommended"},
	},
	"aizawa_single": {
		Attractor: FieldConfig{Name: "aizawa"}, Integrator: "euler", Dt: 0.01,
		Particles: 1, Window: 10000, Steps: 20000, StepsPerFrame: 5, FPS: 30,
		Start: StartConfig{Kind: "recommended"},
	},
	"lorenz_gravity": {
		Attractor: FieldConfig{Name: "lorenz"},
		Superpose: []FieldConfig{{Name: "gravity", Params: map[string]float64{"force": -1, "dims": 3, "axis": 2}}},
		Integrator: "rk4", Dt: 0.005,
		Particles: 300, Window: 300, Warmup: 2000, Steps: 20000, StepsPerFrame: 5, FPS: 30,
		Start: StartConfig{Kind: "box", Min: []float64{-10, -10, 10}, Max: []float64{10, 10, 20}},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
