package agents

import (
	"context"
	"fmt"

	"advisim/internal/knowledge"
	"advisim/internal/logging"
	"advisim/internal/types"
)

// VisaProvider analyzes immigration aspects of a case: which permit fits,
// what it requires, and how long it takes.
type VisaProvider struct {
	rules []categoryRule
}

// NewVisaProvider creates the visa analyst with its ordered category rules.
func NewVisaProvider() *VisaProvider {
	return &VisaProvider{
		// First match wins. Investor detection must precede work detection:
		// "investor working in their own company" is an investor KITAS case.
		rules: []categoryRule{
			rule(`invest|shareholder|director|own.{0,20}company`, "investor_kitas"),
			rule(`work|employ|job|hire[d]? as`, "working_kitas"),
			rule(`retire|pension`, "retirement_kitas"),
			rule(`second home|long[ -]?term stay`, "second_home"),
			rule(`holiday|touris|visit`, "b211a"),
		},
	}
}

func (p *VisaProvider) ID() string     { return AgentVisa }
func (p *VisaProvider) Domain() string { return knowledge.DomainVisa }

// Analyze implements AnalysisProvider.
func (p *VisaProvider) Analyze(_ context.Context, c *types.Case, snap knowledge.Snapshot) (*types.AgentAnalysis, error) {
	if snap.Empty() {
		logging.AgentsDebug("visa: no knowledge snapshot, using fallback advice")
		return p.fallback(), nil
	}

	candidate := matchCategory(p.rules, c.Description)
	entry, resolved, exact, ok := snap.Lookup(candidate)
	if !ok {
		return p.fallback(), nil
	}

	classification := types.ClassificationPublic
	if entry.Restricted {
		// Long-stay permits are handled under the internal tier.
		classification = types.ClassificationInternal
	}

	risks := []string{"Immigration regulation changes on short notice"}
	if entry.Restricted {
		risks = append(risks, "Sponsor or position changes invalidate the permit")
	}

	confidence := 0.85
	if !exact {
		confidence = 0.8
	}

	days, known := DurationToDays(entry.Timeline)
	return &types.AgentAnalysis{
		Agent:    AgentVisa,
		Analysis: fmt.Sprintf("Recommended immigration route: %s. %s", entry.Name, entry.Notes),
		Recommendations: []string{
			fmt.Sprintf("Apply for %s (%s)", entry.Name, resolved),
			"Engage a licensed visa agent for submission",
		},
		Requirements:       entry.Requirements,
		Risks:              risks,
		Timeline:           entry.Timeline,
		TimelineDays:       days,
		TimelineKnown:      known,
		Confidence:         confidence,
		Classification:     classification,
		InvestmentEstimate: ParseInvestmentValue(entry.Investment),
		Obligations:        entry.Obligations,
	}, nil
}

func (p *VisaProvider) fallback() *types.AgentAnalysis {
	return &types.AgentAnalysis{
		Agent:    AgentVisa,
		Analysis: "No visa knowledge base available. General guidance: enter on a visit visa and convert to the appropriate stay permit once plans firm up.",
		Recommendations: []string{
			"Start with a B211A visit visa",
			"Confirm permit requirements with immigration before committing",
		},
		Requirements:   []string{"Valid passport", "Proof of onward travel"},
		Risks:          []string{"Advice not grounded in current regulations"},
		Timeline:       "2-4 weeks",
		TimelineDays:   21,
		TimelineKnown:  true,
		Confidence:     0.7,
		Classification: types.ClassificationPublic,
	}
}
