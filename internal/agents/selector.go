package agents

import (
	"strings"

	"advisim/internal/logging"
)

// ModeQuartet overrides keyword selection and forces all four domain
// providers (plus content).
const ModeQuartet = "quartet"

// domainKeywords routes case text to providers by lowercase substring
// match. Selection order is fixed: visa, licensing, tax, legal.
var domainKeywords = []struct {
	agent    string
	keywords []string
}{
	{AgentVisa, []string{"visa", "kitas", "residence"}},
	{AgentLicensing, []string{"business", "company", "pt pma", "pt-pma"}},
	{AgentTax, []string{"tax", "optimization", "fiscal"}},
	{AgentLegal, []string{"property", "villa", "land"}},
}

// SelectAgents maps case text to the ordered, de-duplicated list of
// provider ids to invoke. Any domain hit also selects the content
// provider. The result may legitimately be empty when no keywords match
// and no mode is given; callers must tolerate zero providers.
func SelectAgents(description, mode string) []string {
	if mode == ModeQuartet {
		return []string{AgentVisa, AgentLicensing, AgentTax, AgentLegal, AgentContent}
	}

	lower := strings.ToLower(description)
	var selected []string
	for _, d := range domainKeywords {
		for _, kw := range d.keywords {
			if strings.Contains(lower, kw) {
				selected = append(selected, d.agent)
				break
			}
		}
	}
	if len(selected) > 0 {
		selected = append(selected, AgentContent)
	}

	logging.AgentsDebug("selected %d agents for case: %v", len(selected), selected)
	return selected
}
