package montecarlo

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
)

// Sampler draws values from configured distributions using a seedable
// source, so a batch replays identically under the same seed.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler over the given source.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Normal draws from N(mean, stdDev) via the Box-Muller transform.
func (s *Sampler) Normal(mean, stdDev float64) float64 {
	u1 := s.rng.Float64()
	u2 := s.rng.Float64()
	// Guard the log against a zero draw.
	for u1 == 0 {
		u1 = s.rng.Float64()
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return z*stdDev + mean
}

// Uniform draws from U(min, max).
func (s *Sampler) Uniform(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// Exponential draws via the inverse CDF: -ln(1-u)/lambda.
func (s *Sampler) Exponential(lambda float64) float64 {
	u := s.rng.Float64()
	return -math.Log(1-u) / lambda
}

// Discrete picks uniformly from an explicit value list.
func (s *Sampler) Discrete(values []string) string {
	return values[s.rng.Intn(len(values))]
}

// Bernoulli draws true with the given probability.
func (s *Sampler) Bernoulli(probability float64) bool {
	return s.rng.Float64() < probability
}

// SampleVariable dispatches on the variable type and returns the value as
// a string, the form used for template substitution and factor bucketing.
func (s *Sampler) SampleVariable(v Variable) (string, error) {
	switch v.Type {
	case TypeContinuous:
		var value float64
		switch v.Distribution {
		case DistNormal:
			value = s.Normal(v.Parameters.Mean, v.Parameters.StdDev)
		case DistUniform:
			value = s.Uniform(v.Parameters.Min, v.Parameters.Max)
		case DistExponential:
			value = s.Exponential(v.Parameters.Lambda)
		default:
			return "", fmt.Errorf("%w: unknown distribution %q", ErrInvalidConfig, v.Distribution)
		}
		return strconv.FormatFloat(value, 'f', 2, 64), nil

	case TypeDiscrete:
		if len(v.Parameters.Values) == 0 {
			return "", fmt.Errorf("%w: discrete variable %q has no values", ErrInvalidConfig, v.Name)
		}
		return s.Discrete(v.Parameters.Values), nil

	case TypeBoolean:
		return strconv.FormatBool(s.Bernoulli(v.Parameters.Probability)), nil

	default:
		return "", fmt.Errorf("%w: unknown variable type %q", ErrInvalidConfig, v.Type)
	}
}

// SelectWeightedRandom picks a scenario by roulette-wheel selection: draw
// u ~ U(0, totalWeight) and subtract each weight until it crosses zero.
// Floating-point fallthrough returns the first scenario.
func (s *Sampler) SelectWeightedRandom(scenarios []Scenario) Scenario {
	total := 0.0
	for _, sc := range scenarios {
		total += sc.Weight
	}

	u := s.rng.Float64() * total
	for _, sc := range scenarios {
		u -= sc.Weight
		if u <= 0 {
			return sc
		}
	}
	return scenarios[0]
}
