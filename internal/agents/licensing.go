package agents

import (
	"context"
	"fmt"

	"advisim/internal/knowledge"
	"advisim/internal/logging"
	"advisim/internal/types"
)

// LicensingProvider analyzes business structure and licensing: which KBLI
// classification applies and what the OSS licensing path looks like.
type LicensingProvider struct {
	rules []categoryRule
}

// NewLicensingProvider creates the licensing analyst.
func NewLicensingProvider() *LicensingProvider {
	return &LicensingProvider{
		// First match wins. Villa accommodation must precede generic real
		// estate so "villa rental" lands on 55130, not 68111.
		rules: []categoryRule{
			rule(`villa|accommodation|guest ?house`, "55130"),
			rule(`restaurant|cafe|bar|warung food`, "56101"),
			rule(`real estate|property (rental|management)|buy.{0,20}(land|building)`, "68111"),
			rule(`retail|shop|minimarket`, "47111"),
			rule(`consult|advisory|agency|service`, "70209"),
		},
	}
}

func (p *LicensingProvider) ID() string     { return AgentLicensing }
func (p *LicensingProvider) Domain() string { return knowledge.DomainLicensing }

// Analyze implements AnalysisProvider.
func (p *LicensingProvider) Analyze(_ context.Context, c *types.Case, snap knowledge.Snapshot) (*types.AgentAnalysis, error) {
	if snap.Empty() {
		logging.AgentsDebug("licensing: no knowledge snapshot, using fallback advice")
		return p.fallback(), nil
	}

	candidate := matchCategory(p.rules, c.Description)
	entry, resolved, exact, ok := snap.Lookup(candidate)
	if !ok {
		return p.fallback(), nil
	}

	classification := types.ClassificationPublic
	risks := []string{"OSS system processing delays"}
	if entry.Restricted {
		// Foreign-ineligible business codes are handled internally.
		classification = types.ClassificationInternal
		risks = append(risks, "Business line closed to foreign investment; restructuring required")
	}

	confidence := 0.85
	if !exact {
		confidence = 0.8
	}

	days, known := DurationToDays(entry.Timeline)
	return &types.AgentAnalysis{
		Agent:    AgentLicensing,
		Analysis: fmt.Sprintf("Business classification: %s. %s", entry.Name, entry.Notes),
		Recommendations: []string{
			fmt.Sprintf("Incorporate under KBLI %s (%s)", resolved, entry.Name),
			"Register NIB through the OSS system",
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

func (p *LicensingProvider) fallback() *types.AgentAnalysis {
	return &types.AgentAnalysis{
		Agent:    AgentLicensing,
		Analysis: "No KBLI knowledge base available. General guidance: a PT PMA with 10B IDR minimum investment commitment covers most foreign-owned activities.",
		Recommendations: []string{
			"Incorporate a PT PMA",
			"Verify the intended KBLI code is open to foreign ownership",
		},
		Requirements:       []string{"Two shareholders minimum", "Registered office address"},
		Risks:              []string{"Advice not grounded in the current KBLI table"},
		Timeline:           "4-8 weeks",
		TimelineDays:       42,
		TimelineKnown:      true,
		Confidence:         0.75,
		Classification:     types.ClassificationPublic,
		InvestmentEstimate: 1e10,
	}
}
