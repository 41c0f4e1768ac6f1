package engine

import (
	"fmt"

	"advisim/internal/types"
)

// opportunityCatalogue fixes viralPotential scores and format lists per
// opportunity type. Static lookup, not computed from case content.
var opportunityCatalogue = map[string]struct {
	viralPotential float64
	formats        []string
	timeline       string
}{
	"immediate":   {0.8, []string{"reel", "story"}, "within 1 week"},
	"educational": {0.6, []string{"carousel", "blog post"}, "2-4 weeks"},
	"case_study":  {0.7, []string{"long-form article", "video testimonial"}, "1-2 months"},
}

// IdentifyContentOpportunities derives marketing-angle suggestions from a
// case and its integrated solution. The heuristic is independent of the
// integrator: urgency drives the immediate angle, the first objective the
// educational one, and a strong success probability the case study.
func IdentifyContentOpportunities(c *types.Case, solution types.IntegratedSolution) []types.ContentOpportunity {
	var opportunities []types.ContentOpportunity

	if c.Urgency == types.UrgencyHigh || c.Urgency == types.UrgencyCritical {
		opportunities = append(opportunities, makeOpportunity(
			"immediate",
			"Racing the clock in Bali",
			"how fast the right paperwork can move when it has to",
		))
	}

	objective := "getting established in Bali"
	if len(c.Objectives) > 0 {
		objective = c.Objectives[0]
	}
	opportunities = append(opportunities, makeOpportunity(
		"educational",
		fmt.Sprintf("What %s actually takes", objective),
		"step-by-step requirements with real timelines and costs",
	))

	if solution.SuccessProbability > 0.8 {
		opportunities = append(opportunities, makeOpportunity(
			"case_study",
			"A high-confidence roadmap, documented",
			"from first consultation to a fully compliant setup",
		))
	}

	return opportunities
}

func makeOpportunity(kind, title, angle string) types.ContentOpportunity {
	entry := opportunityCatalogue[kind]
	return types.ContentOpportunity{
		Type:           kind,
		Title:          title,
		Angle:          angle,
		Formats:        append([]string(nil), entry.formats...),
		ViralPotential: entry.viralPotential,
		Timeline:       entry.timeline,
	}
}
