package montecarlo

import "fmt"

// Preset returns a ready-made batch configuration by name. The returned
// Config is a deep-enough copy for the caller to tweak Iterations, Seed
// and Workers without affecting subsequent calls.
func Preset(name string) (Config, error) {
	builder, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return builder(), nil
}

// PresetNames lists the available presets in stable order.
func PresetNames() []string {
	return []string{"visa-stress", "business-setup", "multi-domain"}
}

var presets = map[string]func() Config{
	"visa-stress":    visaStressPreset,
	"business-setup": businessSetupPreset,
	"multi-domain":   multiDomainPreset,
}

func visaStressPreset() Config {
	return Config{
		Iterations:      1000,
		ConfidenceLevel: 0.95,
		Scenarios: []Scenario{
			{Name: "visa_application", Weight: 0.6, Impact: "standard B211A application window"},
			{Name: "visa_application_peak", Weight: 0.3, Impact: "peak season immigration backlog"},
			{Name: "visa_application_audit", Weight: 0.1, Impact: "sponsor documents pulled for audit"},
		},
		Variables: []Variable{
			{
				Name: "processing_days", Type: TypeContinuous,
				Distribution: DistNormal,
				Parameters:   Parameters{Mean: 14, StdDev: 4},
			},
			{
				Name: "sponsor_type", Type: TypeDiscrete,
				Parameters: Parameters{Values: []string{"agency", "company", "individual"}},
			},
			{
				Name: "documents_complete", Type: TypeBoolean,
				Parameters: Parameters{Probability: 0.85},
			},
		},
	}
}

func businessSetupPreset() Config {
	return Config{
		Iterations:      1000,
		ConfidenceLevel: 0.95,
		Scenarios: []Scenario{
			{Name: "business_setup", Weight: 0.7, Impact: "PT PMA incorporation on the consulting KBLI"},
			{Name: "business_setup_restricted", Weight: 0.3, Impact: "applicant requests a restricted KBLI code"},
		},
		Variables: []Variable{
			{
				Name: "notary_delay_days", Type: TypeContinuous,
				Distribution: DistExponential,
				Parameters:   Parameters{Lambda: 0.2},
			},
			{
				Name: "capital_tier", Type: TypeDiscrete,
				Parameters: Parameters{Values: []string{"minimum", "comfortable", "oversized"}},
			},
			{
				Name: "oss_system_up", Type: TypeBoolean,
				Parameters: Parameters{Probability: 0.9},
			},
		},
	}
}

func multiDomainPreset() Config {
	return Config{
		Iterations:      1000,
		ConfidenceLevel: 0.95,
		Scenarios: []Scenario{
			{Name: "multi_domain", Weight: 0.5, Impact: "relocation with company, visa, tax and property in one plan"},
			{Name: "property_acquisition", Weight: 0.25, Impact: "leasehold villa negotiation"},
			{Name: "tax_compliance", Weight: 0.25, Impact: "first-year fiscal registration"},
		},
		Variables: []Variable{
			{
				Name: "budget_headroom", Type: TypeContinuous,
				Distribution: DistUniform,
				Parameters:   Parameters{Min: 0, Max: 1},
			},
			{
				Name: "lease_years", Type: TypeContinuous,
				Distribution: DistNormal,
				Parameters:   Parameters{Mean: 25, StdDev: 5},
			},
			{
				Name: "entity_ready", Type: TypeBoolean,
				Parameters: Parameters{Probability: 0.7},
			},
		},
	}
}
