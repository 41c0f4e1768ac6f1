package agents

import (
	"context"
	"fmt"

	"advisim/internal/knowledge"
	"advisim/internal/logging"
	"advisim/internal/types"
)

// TaxProvider analyzes the fiscal side: applicable regime, filings, and
// recurring obligations. Tax analyses are always INTERNAL - they expose the
// client's financial position.
type TaxProvider struct {
	rules []categoryRule
}

// NewTaxProvider creates the tax analyst.
func NewTaxProvider() *TaxProvider {
	return &TaxProvider{
		rules: []categoryRule{
			rule(`villa|hotel|restaurant|hospitality`, "pb1_hospitality"),
			rule(`personal|individual|freelanc|salary`, "personal_resident"),
			rule(`company|pt pma|pt-pma|corporate`, "pt_pma_standard"),
		},
	}
}

func (p *TaxProvider) ID() string     { return AgentTax }
func (p *TaxProvider) Domain() string { return knowledge.DomainTax }

// Analyze implements AnalysisProvider.
func (p *TaxProvider) Analyze(_ context.Context, c *types.Case, snap knowledge.Snapshot) (*types.AgentAnalysis, error) {
	if snap.Empty() {
		logging.AgentsDebug("tax: no knowledge snapshot, using fallback advice")
		return p.fallback(), nil
	}

	candidate := matchCategory(p.rules, c.Description)
	entry, _, exact, ok := snap.Lookup(candidate)
	if !ok {
		return p.fallback(), nil
	}

	confidence := 0.85
	if !exact {
		confidence = 0.8
	}

	days, known := DurationToDays(entry.Timeline)
	return &types.AgentAnalysis{
		Agent:    AgentTax,
		Analysis: fmt.Sprintf("Applicable tax regime: %s. %s", entry.Name, entry.Notes),
		Recommendations: []string{
			"Register the relevant NPWP before operations start",
			"Retain a local tax consultant for monthly filings",
		},
		Requirements:   entry.Requirements,
		Risks:          []string{"Late filing penalties accrue monthly", "Tax office data matching with immigration records"},
		Timeline:       entry.Timeline,
		TimelineDays:   days,
		TimelineKnown:  known,
		Confidence:     confidence,
		Classification: types.ClassificationInternal,
		Obligations:    entry.Obligations,
	}, nil
}

func (p *TaxProvider) fallback() *types.AgentAnalysis {
	return &types.AgentAnalysis{
		Agent:    AgentTax,
		Analysis: "No tax knowledge base available. General guidance: register an NPWP early; resident taxpayers are taxed on worldwide income.",
		Recommendations: []string{
			"Register an NPWP",
			"Budget for 22% corporate or progressive personal rates",
		},
		Requirements:   []string{"Identity documents", "Business registration if corporate"},
		Risks:          []string{"Advice not grounded in the current regulations"},
		Timeline:       "2-3 weeks",
		TimelineDays:   17.5,
		TimelineKnown:  true,
		Confidence:     0.7,
		Classification: types.ClassificationInternal,
	}
}
