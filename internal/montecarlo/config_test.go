package montecarlo

import (
	"errors"
	"testing"
)

func validConfig() Config {
	return Config{
		Iterations:      10,
		ConfidenceLevel: 0.95,
		Scenarios: []Scenario{
			{Name: "base", Weight: 0.7},
			{Name: "stress", Weight: 0.3},
		},
		Variables: []Variable{
			{Name: "delay", Type: TypeContinuous, Distribution: DistNormal, Parameters: Parameters{Mean: 10, StdDev: 2}},
			{Name: "tier", Type: TypeDiscrete, Parameters: Parameters{Values: []string{"a", "b"}}},
			{Name: "ready", Type: TypeBoolean, Parameters: Parameters{Probability: 0.5}},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero iterations no scenarios", func(c *Config) {
			c.Iterations = 0
			c.Scenarios = nil
		}, false},
		{"negative iterations", func(c *Config) { c.Iterations = -1 }, true},
		{"iterations without scenarios", func(c *Config) { c.Scenarios = nil }, true},
		{"unnamed scenario", func(c *Config) { c.Scenarios[0].Name = "" }, true},
		{"zero weight", func(c *Config) { c.Scenarios[1].Weight = 0 }, true},
		{"negative weight", func(c *Config) { c.Scenarios[1].Weight = -0.5 }, true},
		{"unnamed variable", func(c *Config) { c.Variables[0].Name = "" }, true},
		{"unknown type", func(c *Config) { c.Variables[0].Type = "complex" }, true},
		{"unknown distribution", func(c *Config) { c.Variables[0].Distribution = "pareto" }, true},
		{"negative stdDev", func(c *Config) { c.Variables[0].Parameters.StdDev = -1 }, true},
		{"uniform max below min", func(c *Config) {
			c.Variables[0].Distribution = DistUniform
			c.Variables[0].Parameters = Parameters{Min: 5, Max: 1}
		}, true},
		{"exponential zero lambda", func(c *Config) {
			c.Variables[0].Distribution = DistExponential
			c.Variables[0].Parameters = Parameters{}
		}, true},
		{"discrete without values", func(c *Config) { c.Variables[1].Parameters.Values = nil }, true},
		{"probability above one", func(c *Config) { c.Variables[2].Parameters.Probability = 1.5 }, true},
		{"weights need not sum to one", func(c *Config) {
			c.Scenarios[0].Weight = 3
			c.Scenarios[1].Weight = 5
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestPreset(t *testing.T) {
	for _, name := range PresetNames() {
		cfg, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q): %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q does not validate: %v", name, err)
		}
		if cfg.Iterations == 0 {
			t.Errorf("preset %q has zero iterations", name)
		}
	}
}

func TestPresetUnknown(t *testing.T) {
	_, err := Preset("moonshot")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Preset(unknown) error = %v, want ErrUnknownPreset", err)
	}
}

func TestPresetIsolatedCopies(t *testing.T) {
	a, _ := Preset("visa-stress")
	a.Iterations = 1
	a.Scenarios[0].Weight = 99

	b, _ := Preset("visa-stress")
	if b.Iterations == 1 {
		t.Error("mutating a preset copy leaked into subsequent calls")
	}
	if b.Scenarios[0].Weight == 99 {
		t.Error("mutating preset scenarios leaked into subsequent calls")
	}
}
