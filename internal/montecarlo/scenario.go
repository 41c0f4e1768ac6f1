package montecarlo

import (
	"sort"
	"strings"
)

// scenarioTemplates holds the case-text templates per scenario archetype.
// One template is chosen uniformly at random per trial; {name} placeholders
// are substituted from the sampled variable map. Substitution is plain
// text replacement - nothing is ever evaluated.
var scenarioTemplates = map[string][]string{
	"visa_application": {
		"A {nationality} national wants a KITAS to take up residence in Bali, budget {budget} IDR, timeline pressure {time_pressure}.",
		"Client from {nationality} applying for a visa to invest and live in Bali; prior rejections: {prior_rejection}.",
		"Family of {family_size} from {nationality} seeking long-term residence visas for a move to Bali.",
	},
	"business_setup": {
		"Foreign investor wants to open a {business_type} business via a company in Bali with {capital} IDR capital.",
		"A {nationality} entrepreneur is setting up a PT PMA for a {business_type} company; local partner: {local_partner}.",
		"New {business_type} business in Bali needs company incorporation and licensing, capital {capital} IDR.",
	},
	"tax_compliance": {
		"A company in Bali requests tax optimization; annual revenue {revenue} IDR, months behind on filings: {months_behind}.",
		"Resident foreigner needs fiscal review of personal and corporate tax exposure, revenue {revenue} IDR.",
	},
	"property_acquisition": {
		"Client wants to acquire a villa on {land_status} land in Bali for {budget} IDR.",
		"Foreign buyer evaluating a land lease for a villa project; seller offers a {land_status} arrangement.",
	},
	"multi_domain": {
		"A {nationality} family is relocating: they need visas, want to open a {business_type} company, buy villa property, and plan tax residency.",
		"Full relocation case: residence visa, business setup, property lease, and tax optimization for a {nationality} client.",
	},
}

// genericTemplate covers unknown archetypes so a preset with a custom
// scenario name still synthesizes usable case text.
const genericTemplate = "Advisory case for scenario {scenario}: client situation with variables {variables}."

// SynthesizeCase renders case text for a scenario from sampled variables.
func SynthesizeCase(s *Sampler, scenario Scenario, vars map[string]string) string {
	templates, ok := scenarioTemplates[scenario.Name]
	var template string
	if ok && len(templates) > 0 {
		template = templates[s.rng.Intn(len(templates))]
	} else {
		template = genericTemplate
	}
	return renderTemplate(template, scenario.Name, vars)
}

// renderTemplate substitutes {name} placeholders from the variable map.
// Unknown placeholders are left in place; they are inert text, never
// evaluated.
func renderTemplate(template, scenarioName string, vars map[string]string) string {
	out := template
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	out = strings.ReplaceAll(out, "{scenario}", scenarioName)
	if strings.Contains(out, "{variables}") {
		out = strings.ReplaceAll(out, "{variables}", joinVars(vars))
	}
	return out
}

func joinVars(vars map[string]string) string {
	if len(vars) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(vars))
	for name, value := range vars {
		parts = append(parts, name+"="+value)
	}
	// Sort for stable output.
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
