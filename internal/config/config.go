package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAttractor     = "thomas"
	DefaultIntegrator    = "euler"
	DefaultDt            = 0.01
	DefaultParticles     = 1000
	DefaultWindow        = 10000
	DefaultWarmup        = 10000
	DefaultSteps         = 10000
	DefaultStepsPerFrame = 5
	DefaultFPS           = 30
)

type Config struct {
	Attractor     FieldConfig   `yaml:"attractor"`
	Superpose     []FieldConfig `yaml:"superpose,omitempty"`
	Integrator    string        `yaml:"integrator"`
	Dt            float64       `yaml:"dt"`
	Particles     int           `yaml:"particles"`
	Window        int           `yaml:"window"`
	Warmup        int           `yaml:"warmup"`
	Steps         int           `yaml:"steps"`
	StepsPerFrame int           `yaml:"steps_per_frame"`
	FPS           int           `yaml:"fps"`
	Seed          int64         `yaml:"seed"`
	Start         StartConfig   `yaml:"start"`
}

type FieldConfig struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// StartConfig selects the starting-state generator. Kind "recommended" uses
// the attractor's own entry; "normal" and "box" override it.
type StartConfig struct {
	Kind  string    `yaml:"kind"`
	Scale float64   `yaml:"scale,omitempty"`
	Min   []float64 `yaml:"min,omitempty"`
	Max   []float64 `yaml:"max,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Attractor:     FieldConfig{Name: DefaultAttractor},
		Integrator:    DefaultIntegrator,
		Dt:            DefaultDt,
		Particles:     DefaultParticles,
		Window:        DefaultWindow,
		Warmup:        DefaultWarmup,
		Steps:         DefaultSteps,
		StepsPerFrame: DefaultStepsPerFrame,
		FPS:           DefaultFPS,
		Start:         StartConfig{Kind: "recommended"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be handed out and edited.
func (c *Config) Clone() *Config {
	out := *c
	out.Attractor = c.Attractor.clone()
	if c.Superpose != nil {
		out.Superpose = make([]FieldConfig, len(c.Superpose))
		for i, f := range c.Superpose {
			out.Superpose[i] = f.clone()
		}
	}
	out.Start.Min = append([]float64(nil), c.Start.Min...)
	out.Start.Max = append([]float64(nil), c.Start.Max...)
	return &out
}

func (f FieldConfig) clone() FieldConfig {
	if f.Params == nil {
		return f
	}
	p := make(map[string]float64, len(f.Params))
	for k, v := range f.Params {
		p[k] = v
	}
	return FieldConfig{Name: f.Name, Params: p}
}

// Validate checks the numeric settings. Names are checked by the registry
// when the session is built.
func (c *Config) Validate() error {
	if c.Attractor.Name == "" {
		return fmt.Errorf("config: attractor name is required")
	}
	for _, f := range c.Superpose {
		if f.Name == "" {
			return fmt.Errorf("config: superposed field without a name")
		}
	}
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("config: dt must be positive and finite, got %v", c.Dt)
	}
	if c.Particles < 1 {
		return fmt.Errorf("config: particles must be at least 1, got %d", c.Particles)
	}
	if c.Window < 1 {
		return fmt.Errorf("config: window must be at least 1, got %d", c.Window)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("config: warmup must not be negative, got %d", c.Warmup)
	}
	if c.Steps < 1 {
		return fmt.Errorf("config: steps must be at least 1, got %d", c.Steps)
	}
	if c.StepsPerFrame < 1 {
		return fmt.Errorf("config: steps_per_frame must be at least 1, got %d", c.StepsPerFrame)
	}
	if c.FPS < 1 {
		return fmt.Errorf("config: fps must be at least 1, got %d", c.FPS)
	}
	switch c.Start.Kind {
	case "", "recommended":
	case "normal":
		if c.Start.Scale < 0 {
			return fmt.Errorf("config: start scale must not be negative, got %v", c.Start.Scale)
		}
	case "box":
		if len(c.Start.Min) == 0 || len(c.Start.Min) != len(c.Start.Max) {
			return fmt.Errorf("config: box start needs min and max of equal length")
		}
	default:
		return fmt.Errorf("config: unknown start kind %q", c.Start.Kind)
	}
	return nil
}

// FieldNames lists the attractor followed by any superposed fields.
func (c *Config) FieldNames() []string {
	names := []string{c.Attractor.Name}
	for _, f := range c.Superpose {
		names = append(names, f.Name)
	}
	return names
}
