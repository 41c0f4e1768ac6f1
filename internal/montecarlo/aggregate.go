package montecarlo

import (
	"fmt"
	"math"
	"sort"
)

// RiskDistribution buckets outcomes by risk count, expressed as fractions
// of the batch. low=0 risks, medium=1-2, high=3-5, critical=more than 5.
type RiskDistribution struct {
	Low      float64 `json:"low"`
	Medium   float64 `json:"medium"`
	High     float64 `json:"high"`
	Critical float64 `json:"critical"`
}

// CriticalFactor is a (variable, value) pair strongly correlated with
// success or failure across the batch.
type CriticalFactor struct {
	Variable    string  `json:"variable"`
	Value       string  `json:"value"`
	SuccessRate float64 `json:"success_rate"`
	Impact      float64 `json:"impact"`
	Mitigation  string  `json:"mitigation"`
}

// ConfidenceInterval bounds the mean success-confidence score.
type ConfidenceInterval struct {
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Confidence float64 `json:"confidence"`
}

// Result is the aggregate of one Monte Carlo batch.
type Result struct {
	ScenariosTested     int                `json:"scenarios_tested"`
	SuccessRate         float64            `json:"success_rate"`
	FailureRate         float64            `json:"failure_rate"`
	AverageTimelineDays float64            `json:"average_timeline_days"`
	AverageInvestment   float64            `json:"average_investment"`
	RiskDistribution    RiskDistribution   `json:"risk_distribution"`
	CriticalFactors     []CriticalFactor   `json:"critical_factors"`
	ConfidenceInterval  ConfidenceInterval `json:"confidence_interval"`
	Recommendations     []string           `json:"recommendations"`
}

// zScores maps the supported confidence levels to their z values. Any
// other requested level falls back to 1.96; the three listed values are
// exact and contractual.
var zScores = map[float64]float64{
	0.90: 1.645,
	0.95: 1.96,
	0.99: 2.576,
}

const defaultZ = 1.96

func zScore(confidence float64) float64 {
	if z, ok := zScores[confidence]; ok {
		return z
	}
	return defaultZ
}

// factorImpactThreshold filters critical factors: only pairs whose local
// success rate deviates from 0.5 by more than this survive.
const factorImpactThreshold = 0.2

// maxCriticalFactors caps the reported factor list.
const maxCriticalFactors = 10

// highRiskFraction triggers the safeguards recommendation when exceeded.
const highRiskFraction = 0.2

// aggregate folds the trial outcomes into a Result. It is total: an empty
// batch yields zeroed rates, never NaN, and a batch of pure failures
// still produces a defined confidence interval.
func aggregate(cfg Config, outcomes []Outcome) *Result {
	result := &Result{
		ScenariosTested: len(outcomes),
		ConfidenceInterval: ConfidenceInterval{
			Confidence: cfg.ConfidenceLevel,
		},
	}
	if len(outcomes) == 0 {
		result.Recommendations = []string{
			"No trials executed; increase iterations to obtain statistics",
		}
		return result
	}

	total := float64(len(outcomes))
	successes := 0
	highRiskCount := 0

	var timelineSum, timelineN float64
	var investmentSum, investmentN float64
	var confidences []float64

	for _, o := range outcomes {
		if o.Success {
			successes++
			if o.TimelineDays > 0 {
				timelineSum += o.TimelineDays
				timelineN++
			}
			if o.Investment > 0 {
				investmentSum += o.Investment
				investmentN++
			}
			confidences = append(confidences, o.Confidence)
		}

		switch {
		case o.RiskCount == 0:
			result.RiskDistribution.Low++
		case o.RiskCount <= 2:
			result.RiskDistribution.Medium++
		case o.RiskCount <= 5:
			result.RiskDistribution.High++
		default:
			result.RiskDistribution.Critical++
		}
		if o.RiskCount > 5 {
			highRiskCount++
		}
	}

	result.SuccessRate = float64(successes) / total
	result.FailureRate = float64(len(outcomes)-successes) / total
	result.RiskDistribution.Low /= total
	result.RiskDistribution.Medium /= total
	result.RiskDistribution.High /= total
	result.RiskDistribution.Critical /= total

	if timelineN > 0 {
		result.AverageTimelineDays = timelineSum / timelineN
	}
	if investmentN > 0 {
		result.AverageInvestment = investmentSum / investmentN
	}

	result.CriticalFactors = criticalFactors(outcomes)
	result.ConfidenceInterval = confidenceInterval(confidences, cfg.ConfidenceLevel)
	result.Recommendations = recommendations(result, float64(highRiskCount)/total)
	return result
}

// criticalFactors computes, for every observed (variable, value) pair,
// the success rate within that bucket; the impact is its distance from an
// even coin flip. Only strong correlations survive, top 10 by impact.
func criticalFactors(outcomes []Outcome) []CriticalFactor {
	type bucket struct {
		variable, value string
		total, success  int
	}
	buckets := map[string]*bucket{}

	for _, o := range outcomes {
		for variable, value := range o.Variables {
			key := variable + "=" + value
			b, ok := buckets[key]
			if !ok {
				b = &bucket{variable: variable, value: value}
				buckets[key] = b
			}
			b.total++
			if o.Success {
				b.success++
			}
		}
	}

	var factors []CriticalFactor
	for _, b := range buckets {
		localRate := float64(b.success) / float64(b.total)
		impact := math.Abs(localRate - 0.5)
		if impact <= factorImpactThreshold {
			continue
		}

		mitigation := fmt.Sprintf("Leverage %s=%s in planning", b.variable, b.value)
		if localRate < 0.5 {
			mitigation = fmt.Sprintf("Avoid or mitigate %s=%s", b.variable, b.value)
		}
		factors = append(factors, CriticalFactor{
			Variable:    b.variable,
			Value:       b.value,
			SuccessRate: localRate,
			Impact:      impact,
			Mitigation:  mitigation,
		})
	}

	sort.Slice(factors, func(i, j int) bool {
		if factors[i].Impact != factors[j].Impact {
			return factors[i].Impact > factors[j].Impact
		}
		// Deterministic order among equals.
		if factors[i].Variable != factors[j].Variable {
			return factors[i].Variable < factors[j].Variable
		}
		return factors[i].Value < factors[j].Value
	})

	if len(factors) > maxCriticalFactors {
		factors = factors[:maxCriticalFactors]
	}
	return factors
}

// confidenceInterval computes mean +/- z*(stdDev/sqrt(n)) over successful
// outcomes' confidence values. Zero samples yield a zeroed interval
// rather than NaN.
func confidenceInterval(confidences []float64, level float64) ConfidenceInterval {
	ci := ConfidenceInterval{Confidence: level}
	n := float64(len(confidences))
	if n == 0 {
		return ci
	}

	mean := 0.0
	for _, c := range confidences {
		mean += c
	}
	mean /= n

	variance := 0.0
	for _, c := range confidences {
		variance += (c - mean) * (c - mean)
	}
	variance /= n
	stdErr := math.Sqrt(variance) / math.Sqrt(n)

	z := zScore(level)
	ci.Lower = mean - z*stdErr
	ci.Upper = mean + z*stdErr
	return ci
}

func recommendations(r *Result, highRisk float64) []string {
	var recs []string

	if r.SuccessRate < 0.5 {
		recs = append(recs, "Success rate below 50%: review case requirements and preconditions before proceeding")
	}
	if r.SuccessRate > 0.9 {
		recs = append(recs, "Success rate above 90%: maintain the current approach")
	}

	for i, f := range r.CriticalFactors {
		if i >= 3 {
			break
		}
		recs = append(recs, f.Mitigation)
	}

	if highRisk > highRiskFraction {
		recs = append(recs, "More than 20% of scenarios carry extreme risk: implement additional safeguards")
	}
	return recs
}
