// Package montecarlo stress-tests the case analysis pipeline across
// thousands of randomly generated scenarios to estimate success
// probability, risk distribution, and the variables most correlated with
// failure.
package montecarlo

import (
	"errors"
	"fmt"
)

// Sentinel configuration errors. These are fatal: they surface to the
// caller before any trial runs.
var (
	ErrInvalidConfig = errors.New("invalid monte carlo config")
	ErrUnknownPreset = errors.New("unknown simulation preset")
)

// Variable types.
const (
	TypeContinuous = "continuous"
	TypeDiscrete   = "discrete"
	TypeBoolean    = "boolean"
)

// Continuous distributions.
const (
	DistNormal      = "normal"
	DistUniform     = "uniform"
	DistExponential = "exponential"
)

// Scenario is a named category of simulated case with a sampling weight.
type Scenario struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
	Impact string  `yaml:"impact" json:"impact"` // descriptive tag, not used in math
}

// Parameters configures one variable's distribution.
type Parameters struct {
	Mean        float64  `yaml:"mean" json:"mean"`
	StdDev      float64  `yaml:"std_dev" json:"std_dev"`
	Min         float64  `yaml:"min" json:"min"`
	Max         float64  `yaml:"max" json:"max"`
	Lambda      float64  `yaml:"lambda" json:"lambda"`
	Probability float64  `yaml:"probability" json:"probability"`
	Values      []string `yaml:"values" json:"values"`
}

// Variable is one configured random input dimension.
type Variable struct {
	Name         string     `yaml:"name" json:"name"`
	Type         string     `yaml:"type" json:"type"`
	Distribution string     `yaml:"distribution" json:"distribution"`
	Parameters   Parameters `yaml:"parameters" json:"parameters"`
}

// Config drives one simulation batch.
type Config struct {
	Iterations      int        `yaml:"iterations" json:"iterations"`
	Scenarios       []Scenario `yaml:"scenarios" json:"scenarios"`
	Variables       []Variable `yaml:"variables" json:"variables"`
	ConfidenceLevel float64    `yaml:"confidence_level" json:"confidence_level"`

	// Mode is passed through to the analysis engine ("" or "quartet").
	Mode string `yaml:"mode" json:"mode"`

	// Workers bounds trial concurrency. 0 means runtime.NumCPU().
	Workers int `yaml:"workers" json:"workers"`

	// Seed makes the batch reproducible. 0 means time-based.
	Seed int64 `yaml:"seed" json:"seed"`
}

// Validate checks the config before any trial runs. Zero iterations is
// legal (the batch degenerates to an empty, well-formed result).
func (c *Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be >= 0, got %d", ErrInvalidConfig, c.Iterations)
	}
	if c.Iterations > 0 && len(c.Scenarios) == 0 {
		return fmt.Errorf("%w: at least one scenario required", ErrInvalidConfig)
	}

	totalWeight := 0.0
	for i, s := range c.Scenarios {
		if s.Name == "" {
			return fmt.Errorf("%w: scenario %d has no name", ErrInvalidConfig, i)
		}
		if s.Weight <= 0 {
			return fmt.Errorf("%w: scenario %q weight must be > 0", ErrInvalidConfig, s.Name)
		}
		totalWeight += s.Weight
	}
	_ = totalWeight // weights need not sum to 1; selection normalizes

	for _, v := range c.Variables {
		if err := validateVariable(v); err != nil {
			return err
		}
	}
	return nil
}

func validateVariable(v Variable) error {
	if v.Name == "" {
		return fmt.Errorf("%w: variable has no name", ErrInvalidConfig)
	}
	switch v.Type {
	case TypeContinuous:
		switch v.Distribution {
		case DistNormal:
			if v.Parameters.StdDev < 0 {
				return fmt.Errorf("%w: variable %q stdDev must be >= 0", ErrInvalidConfig, v.Name)
			}
		case DistUniform:
			if v.Parameters.Max < v.Parameters.Min {
				return fmt.Errorf("%w: variable %q max < min", ErrInvalidConfig, v.Name)
			}
		case DistExponential:
			if v.Parameters.Lambda <= 0 {
				return fmt.Errorf("%w: variable %q lambda must be > 0", ErrInvalidConfig, v.Name)
			}
		default:
			return fmt.Errorf("%w: variable %q has unknown distribution %q", ErrInvalidConfig, v.Name, v.Distribution)
		}
	case TypeDiscrete:
		if len(v.Parameters.Values) == 0 {
			return fmt.Errorf("%w: discrete variable %q needs values", ErrInvalidConfig, v.Name)
		}
	case TypeBoolean:
		if v.Parameters.Probability < 0 || v.Parameters.Probability > 1 {
			return fmt.Errorf("%w: boolean variable %q probability out of [0,1]", ErrInvalidConfig, v.Name)
		}
	default:
		return fmt.Errorf("%w: variable %q has unknown type %q", ErrInvalidConfig, v.Name, v.Type)
	}
	return nil
}
