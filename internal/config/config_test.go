package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Attractor.Name != "thomas" {
		t.Errorf("expected attractor thomas, got %s", cfg.Attractor.Name)
	}
	if cfg.Window != 10000 || cfg.Warmup != 10000 {
		t.Errorf("expected window and warmup of 10000, got %d and %d", cfg.Window, cfg.Warmup)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	doc := `
attractor:
  name: lorenz
  params:
    rho: 24.5
superpose:
  - name: gravity
    params: {force: -2}
dt: 0.005
particles: 50
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Attractor.Name != "lorenz" || cfg.Attractor.Params["rho"] != 24.5 {
		t.Errorf("attractor not loaded: %+v", cfg.Attractor)
	}
	if len(cfg.Superpose) != 1 || cfg.Superpose[0].Params["force"] != -2 {
		t.Errorf("superpose not loaded: %+v", cfg.Superpose)
	}
	if cfg.Dt != 0.005 || cfg.Particles != 50 {
		t.Errorf("got dt=%v particles=%d", cfg.Dt, cfg.Particles)
	}
	if cfg.Window != DefaultWindow || cfg.Integrator != DefaultIntegrator {
		t.Error("unset fields should keep their defaults")
	}
	if got := strings.Join(cfg.FieldNames(), ","); got != "lorenz,gravity" {
		t.Errorf("field names: %s", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	want := GetPreset("lorenz_gravity")
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Integrator != "rk4" || len(got.Superpose) != 1 || got.Start.Kind != "box" {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no attractor", func(c *Config) { c.Attractor.Name = "" }, "attractor"},
		{"zero dt", func(c *Config) { c.Dt = 0 }, "dt"},
		{"no particles", func(c *Config) { c.Particles = 0 }, "particles"},
		{"no window", func(c *Config) { c.Window = 0 }, "window"},
		{"negative warmup", func(c *Config) { c.Warmup = -1 }, "warmup"},
		{"zero steps per frame", func(c *Config) { c.StepsPerFrame = 0 }, "steps_per_frame"},
		{"bad start", func(c *Config) { c.Start.Kind = "sphere" }, "start kind"},
		{"ragged box", func(c *Config) { c.Start = StartConfig{Kind: "box", Min: []float64{0}} }, "box"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("thomas09")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Attractor.Params["a"] != 0.09 {
		t.Errorf("expected a=0.09, got %v", cfg.Attractor.Params["a"])
	}

	cfg.Attractor.Params["a"] = 1
	if Presets["thomas09"].Attractor.Params["a"] != 0.09 {
		t.Error("editing a returned preset changed the table")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if !sort.StringsAreSorted(names) {
		t.Error("presets should be listed in order")
	}
	if len(names) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
