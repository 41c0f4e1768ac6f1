package engine

import (
	"fmt"
	"math"
	"strings"

	"advisim/internal/agents"
	"advisim/internal/types"
)

// alternativePlans is a static contingency catalogue, not derived from the
// specific case.
var alternativePlans = []string{
	"Phase the market entry: start on a visit visa with a local partner handling operations",
	"Use a licensed local operator under a management contract until the PT PMA is ready",
	"Defer property commitments until residency and licensing are secured",
}

// defaultObligations applies when no analysis contributes any recurring
// obligation.
var defaultObligations = []string{
	"Monthly bookkeeping and tax filing compliance",
	"Quarterly LKPM investment reporting",
}

// IntegrateSolution merges the per-domain analyses into one ordered,
// dependency-aware action plan with aggregate estimates.
//
// Aggregation assumes parallel tracks: the total timeline is the maximum
// of the per-domain timelines, not their sum, and the total investment is
// the worst single estimate, not cumulative. Only the visa and licensing
// analyses contribute explicit plan steps; the other domains shape the
// aggregates and obligations. That gap is a known limitation of the plan
// builder, not an oversight to patch silently.
func IntegrateSolution(analyses []types.AgentAnalysis) types.IntegratedSolution {
	steps := buildSteps(analyses)

	return types.IntegratedSolution{
		Summary:            summarize(analyses),
		Steps:              steps,
		TotalTimeline:      totalTimeline(analyses),
		TotalInvestment:    agents.FormatInvestment(maxInvestment(analyses)),
		MonthlyObligations: mergeObligations(analyses),
		SuccessProbability: meanConfidence(analyses),
		AlternativePlans:   append([]string(nil), alternativePlans...),
	}
}

func buildSteps(analyses []types.AgentAnalysis) []types.SolutionStep {
	var steps []types.SolutionStep
	visaOrder := 0

	if hasAgent(analyses, agents.AgentVisa) {
		steps = append(steps, types.SolutionStep{
			Order:       1,
			Description: "Secure the appropriate stay permit",
			Responsible: agents.AgentVisa,
			Duration:    "2 weeks",
			Critical:    true,
		})
		visaOrder = 1
	}

	if hasAgent(analyses, agents.AgentLicensing) {
		step := types.SolutionStep{
			Order:       len(steps) + 1,
			Description: "Incorporate and license the business entity",
			Responsible: agents.AgentLicensing,
			Duration:    "4 weeks",
			Critical:    true,
		}
		if visaOrder > 0 {
			step.Dependencies = []int{visaOrder}
		}
		steps = append(steps, step)
	}

	return steps
}

func hasAgent(analyses []types.AgentAnalysis, agent string) bool {
	for _, a := range analyses {
		if a.Agent == agent {
			return true
		}
	}
	return false
}

// totalTimeline is the maximum normalized day count across analyses,
// formatted as days under 30 and months at 30 or above. Analyses without a
// parseable timeline are skipped; when none parse, the total is undefined.
func totalTimeline(analyses []types.AgentAnalysis) string {
	maxDays := 0.0
	known := false
	for _, a := range analyses {
		if a.TimelineKnown && a.TimelineDays > maxDays {
			maxDays = a.TimelineDays
			known = true
		}
	}
	if !known {
		return "undefined"
	}
	if maxDays < 30 {
		return trimTrailingZero(maxDays) + " days total"
	}
	return trimTrailingZero(maxDays/30) + " months total"
}

func trimTrailingZero(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

func maxInvestment(analyses []types.AgentAnalysis) float64 {
	max := 0.0
	for _, a := range analyses {
		if a.InvestmentEstimate > max {
			max = a.InvestmentEstimate
		}
	}
	return max
}

func mergeObligations(analyses []types.AgentAnalysis) []string {
	var merged []string
	seen := map[string]bool{}
	for _, a := range analyses {
		for _, o := range a.Obligations {
			if !seen[o] {
				seen[o] = true
				merged = append(merged, o)
			}
		}
	}
	if len(merged) == 0 {
		return append([]string(nil), defaultObligations...)
	}
	return merged
}

// meanConfidence averages analysis confidence, rounded to two decimals.
// Zero analyses yield 0, never a division by zero.
func meanConfidence(analyses []types.AgentAnalysis) float64 {
	if len(analyses) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range analyses {
		sum += a.Confidence
	}
	return math.Round(sum/float64(len(analyses))*100) / 100
}

func summarize(analyses []types.AgentAnalysis) string {
	if len(analyses) == 0 {
		return "No domain analyses were produced for this case."
	}
	names := make([]string, len(analyses))
	for i, a := range analyses {
		names[i] = a.Agent
	}
	return fmt.Sprintf("Integrated action plan across %d advisory tracks (%s), assuming parallel execution.",
		len(analyses), strings.Join(names, ", "))
}
