package montecarlo

import (
	"math"
	"strings"
	"testing"
)

func TestZScoreTable(t *testing.T) {
	tests := []struct {
		confidence float64
		want       float64
	}{
		{0.90, 1.645},
		{0.95, 1.96},
		{0.99, 2.576},
		{0.80, 1.96}, // unsupported level falls back
		{0, 1.96},
	}
	for _, tt := range tests {
		if got := zScore(tt.confidence); got != tt.want {
			t.Errorf("zScore(%v) = %v, want %v", tt.confidence, got, tt.want)
		}
	}
}

func TestAggregateEmptyBatch(t *testing.T) {
	r := aggregate(Config{ConfidenceLevel: 0.95}, nil)

	if r.ScenariosTested != 0 {
		t.Errorf("ScenariosTested = %d, want 0", r.ScenariosTested)
	}
	for name, v := range map[string]float64{
		"SuccessRate":         r.SuccessRate,
		"FailureRate":         r.FailureRate,
		"AverageTimelineDays": r.AverageTimelineDays,
		"AverageInvestment":   r.AverageInvestment,
		"CI lower":            r.ConfidenceInterval.Lower,
		"CI upper":            r.ConfidenceInterval.Upper,
	} {
		if math.IsNaN(v) {
			t.Errorf("%s is NaN on empty batch", name)
		}
		if v != 0 {
			t.Errorf("%s = %v, want 0 on empty batch", name, v)
		}
	}
	if r.ConfidenceInterval.Confidence != 0.95 {
		t.Errorf("CI confidence = %v, want 0.95", r.ConfidenceInterval.Confidence)
	}
	if len(r.Recommendations) == 0 {
		t.Error("empty batch should still carry a recommendation")
	}
}

func TestAggregateRatesSumToOne(t *testing.T) {
	outcomes := []Outcome{
		{Success: true, Confidence: 0.8},
		{Success: true, Confidence: 0.9},
		{Success: false, RiskCount: 3},
		{Success: false, RiskCount: 7},
	}
	r := aggregate(Config{ConfidenceLevel: 0.95}, outcomes)

	if got := r.SuccessRate + r.FailureRate; math.Abs(got-1) > 1e-9 {
		t.Errorf("SuccessRate + FailureRate = %v, want 1", got)
	}
	if r.SuccessRate != 0.5 {
		t.Errorf("SuccessRate = %v, want 0.5", r.SuccessRate)
	}

	d := r.RiskDistribution
	if got := d.Low + d.Medium + d.High + d.Critical; math.Abs(got-1) > 1e-9 {
		t.Errorf("risk fractions sum = %v, want 1", got)
	}
}

func TestAggregateRiskBuckets(t *testing.T) {
	outcomes := []Outcome{
		{RiskCount: 0},
		{RiskCount: 1},
		{RiskCount: 2},
		{RiskCount: 3},
		{RiskCount: 5},
		{RiskCount: 6},
		{RiskCount: degenerateRiskCount},
		{RiskCount: 0},
	}
	r := aggregate(Config{ConfidenceLevel: 0.95}, outcomes)

	d := r.RiskDistribution
	if d.Low != 0.25 {
		t.Errorf("Low = %v, want 0.25", d.Low)
	}
	if d.Medium != 0.25 {
		t.Errorf("Medium = %v, want 0.25", d.Medium)
	}
	if d.High != 0.25 {
		t.Errorf("High = %v, want 0.25", d.High)
	}
	if d.Critical != 0.25 {
		t.Errorf("Critical = %v, want 0.25", d.Critical)
	}
}

func TestAggregateAveragesIgnoreFailuresAndZeros(t *testing.T) {
	outcomes := []Outcome{
		{Success: true, Confidence: 0.8, TimelineDays: 10, Investment: 100},
		{Success: true, Confidence: 0.9, TimelineDays: 0, Investment: 300}, // zero timeline ignored
		{Success: false, TimelineDays: 1000, Investment: 1e9},             // failures ignored
	}
	r := aggregate(Config{ConfidenceLevel: 0.95}, outcomes)

	if r.AverageTimelineDays != 10 {
		t.Errorf("AverageTimelineDays = %v, want 10", r.AverageTimelineDays)
	}
	if r.AverageInvestment != 200 {
		t.Errorf("AverageInvestment = %v, want 200", r.AverageInvestment)
	}
}

func TestAggregateAveragesAllFailures(t *testing.T) {
	outcomes := []Outcome{
		{Success: false, RiskCount: degenerateRiskCount},
		{Success: false, RiskCount: degenerateRiskCount},
	}
	r := aggregate(Config{ConfidenceLevel: 0.95}, outcomes)

	if r.AverageTimelineDays != 0 || r.AverageInvestment != 0 {
		t.Errorf("averages = (%v, %v), want 0 with no successes",
			r.AverageTimelineDays, r.AverageInvestment)
	}
	if r.RiskDistribution.Critical != 1 {
		t.Errorf("Critical = %v, want 1", r.RiskDistribution.Critical)
	}
	if math.IsNaN(r.ConfidenceInterval.Lower) || math.IsNaN(r.ConfidenceInterval.Upper) {
		t.Error("confidence interval is NaN with no successes")
	}
}

func TestCriticalFactors(t *testing.T) {
	var outcomes []Outcome
	// documents=true always succeeds, documents=false always fails:
	// both buckets have impact 0.5.
	// sponsor=agency splits evenly: impact 0, filtered out.
	for i := 0; i < 10; i++ {
		outcomes = append(outcomes, Outcome{
			Success:   i%2 == 0,
			Variables: map[string]string{"documents": map[bool]string{true: "true", false: "false"}[i%2 == 0], "sponsor": "agency"},
		})
	}
	factors := criticalFactors(outcomes)

	if len(factors) != 2 {
		t.Fatalf("got %d factors, want 2: %+v", len(factors), factors)
	}
	for _, f := range factors {
		if f.Variable != "documents" {
			t.Errorf("unexpected factor variable %q", f.Variable)
		}
		if f.Impact != 0.5 {
			t.Errorf("factor impact = %v, want 0.5", f.Impact)
		}
		if f.Value == "true" && !strings.Contains(f.Mitigation, "Leverage") {
			t.Errorf("positive factor mitigation = %q, want leverage advice", f.Mitigation)
		}
		if f.Value == "false" && !strings.Contains(f.Mitigation, "Avoid or mitigate") {
			t.Errorf("negative factor mitigation = %q, want avoidance advice", f.Mitigation)
		}
	}
}

func TestCriticalFactorsCapped(t *testing.T) {
	var outcomes []Outcome
	// 15 variables, each perfectly correlated with failure.
	for i := 0; i < 4; i++ {
		vars := map[string]string{}
		for v := 'a'; v < 'a'+15; v++ {
			vars[string(v)] = "bad"
		}
		outcomes = append(outcomes, Outcome{Success: false, Variables: vars})
	}
	factors := criticalFactors(outcomes)
	if len(factors) != maxCriticalFactors {
		t.Errorf("got %d factors, want capped at %d", len(factors), maxCriticalFactors)
	}
}

func TestConfidenceIntervalKnownValues(t *testing.T) {
	// Identical samples: zero variance, interval collapses to the mean.
	ci := confidenceInterval([]float64{0.8, 0.8, 0.8, 0.8}, 0.95)
	if ci.Lower != 0.8 || ci.Upper != 0.8 {
		t.Errorf("zero-variance CI = [%v, %v], want [0.8, 0.8]", ci.Lower, ci.Upper)
	}

	// Two samples 0.6 and 1.0: mean 0.8, population stdDev 0.2,
	// stdErr 0.2/sqrt(2).
	ci = confidenceInterval([]float64{0.6, 1.0}, 0.95)
	stdErr := 0.2 / math.Sqrt2
	wantLower := 0.8 - 1.96*stdErr
	wantUpper := 0.8 + 1.96*stdErr
	if math.Abs(ci.Lower-wantLower) > 1e-9 || math.Abs(ci.Upper-wantUpper) > 1e-9 {
		t.Errorf("CI = [%v, %v], want [%v, %v]", ci.Lower, ci.Upper, wantLower, wantUpper)
	}

	// Wider level widens the interval.
	wide := confidenceInterval([]float64{0.6, 1.0}, 0.99)
	if wide.Upper-wide.Lower <= ci.Upper-ci.Lower {
		t.Error("0.99 interval not wider than 0.95 interval")
	}
}

func TestRecommendations(t *testing.T) {
	lowSuccess := aggregate(Config{ConfidenceLevel: 0.95}, []Outcome{
		{Success: false, RiskCount: 1},
		{Success: false, RiskCount: 1},
		{Success: true, Confidence: 0.8},
	})
	if !containsSubstring(lowSuccess.Recommendations, "below 50%") {
		t.Errorf("low success rate missing warning: %v", lowSuccess.Recommendations)
	}

	highSuccess := aggregate(Config{ConfidenceLevel: 0.95}, []Outcome{
		{Success: true, Confidence: 0.9},
		{Success: true, Confidence: 0.9},
	})
	if !containsSubstring(highSuccess.Recommendations, "maintain") {
		t.Errorf("high success rate missing maintain advice: %v", highSuccess.Recommendations)
	}

	risky := aggregate(Config{ConfidenceLevel: 0.95}, []Outcome{
		{Success: true, Confidence: 0.9, RiskCount: 9},
		{Success: true, Confidence: 0.9, RiskCount: 9},
		{Success: true, Confidence: 0.9},
	})
	if !containsSubstring(risky.Recommendations, "safeguards") {
		t.Errorf("high risk fraction missing safeguards advice: %v", risky.Recommendations)
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
