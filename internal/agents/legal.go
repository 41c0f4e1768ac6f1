package agents

import (
	"context"
	"fmt"

	"advisim/internal/knowledge"
	"advisim/internal/logging"
	"advisim/internal/types"
)

// LegalProvider analyzes property and contract structure. Legal analyses
// are always INTERNAL.
type LegalProvider struct {
	rules []categoryRule
}

// NewLegalProvider creates the legal analyst.
func NewLegalProvider() *LegalProvider {
	return &LegalProvider{
		// Nominee detection comes first so a case mentioning both a nominee
		// arrangement and a lease is flagged on the dangerous structure.
		rules: []categoryRule{
			rule(`nominee`, "nominee_structure"),
			rule(`buy|purchase|freehold|own (the )?(land|villa|property)`, "hgb_title"),
			rule(`lease|rent`, "leasehold"),
		},
	}
}

func (p *LegalProvider) ID() string     { return AgentLegal }
func (p *LegalProvider) Domain() string { return knowledge.DomainLegal }

// Analyze implements AnalysisProvider.
func (p *LegalProvider) Analyze(_ context.Context, c *types.Case, snap knowledge.Snapshot) (*types.AgentAnalysis, error) {
	if snap.Empty() {
		logging.AgentsDebug("legal: no knowledge snapshot, using fallback advice")
		return p.fallback(), nil
	}

	candidate := matchCategory(p.rules, c.Description)
	entry, _, exact, ok := snap.Lookup(candidate)
	if !ok {
		return p.fallback(), nil
	}

	risks := []string{"Zoning non-conformity voids permits"}
	if entry.Restricted {
		risks = append(risks, "Structure unenforceable under the Agrarian Law")
	}

	confidence := 0.85
	if !exact {
		confidence = 0.8
	}

	days, known := DurationToDays(entry.Timeline)
	return &types.AgentAnalysis{
		Agent:    AgentLegal,
		Analysis: fmt.Sprintf("Recommended legal structure: %s. %s", entry.Name, entry.Notes),
		Recommendations: []string{
			fmt.Sprintf("Structure the transaction as %s", entry.Name),
			"Commission notarial due diligence on the land certificate",
		},
		Requirements:   entry.Requirements,
		Risks:          risks,
		Timeline:       entry.Timeline,
		TimelineDays:   days,
		TimelineKnown:  known,
		Confidence:     confidence,
		Classification: types.ClassificationInternal,
		Obligations:    entry.Obligations,
	}, nil
}

func (p *LegalProvider) fallback() *types.AgentAnalysis {
	return &types.AgentAnalysis{
		Agent:    AgentLegal,
		Analysis: "No legal knowledge base available. General guidance: foreigners cannot hold freehold title; use leasehold or HGB via a PT PMA.",
		Recommendations: []string{
			"Prefer leasehold with a notarized deed",
			"Never use a nominee freehold arrangement",
		},
		Requirements:   []string{"Land certificate copy", "Seller identity verification"},
		Risks:          []string{"Advice not grounded in current case law"},
		Timeline:       "3-6 weeks",
		TimelineDays:   31.5,
		TimelineKnown:  true,
		Confidence:     0.7,
		Classification: types.ClassificationInternal,
	}
}
