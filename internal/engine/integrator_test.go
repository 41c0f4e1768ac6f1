package engine

import (
	"testing"

	"advisim/internal/agents"
	"advisim/internal/types"
)

func analysis(agent string, days float64, confidence, investment float64, obligations ...string) types.AgentAnalysis {
	return types.AgentAnalysis{
		Agent:              agent,
		Timeline:           "some weeks",
		TimelineDays:       days,
		TimelineKnown:      days > 0,
		Confidence:         confidence,
		Classification:     types.ClassificationPublic,
		InvestmentEstimate: investment,
		Obligations:        obligations,
	}
}

func TestIntegrateStepOrdering(t *testing.T) {
	sol := IntegrateSolution([]types.AgentAnalysis{
		analysis(agents.AgentLicensing, 42, 0.8, 1e10),
		analysis(agents.AgentVisa, 35, 0.85, 0),
	})

	if len(sol.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(sol.Steps))
	}
	visa, licensing := sol.Steps[0], sol.Steps[1]
	if visa.Responsible != agents.AgentVisa || visa.Order != 1 {
		t.Errorf("visa step must come first, got %+v", visa)
	}
	if visa.Duration != "2 weeks" || !visa.Critical {
		t.Errorf("visa step must be critical with 2 weeks duration, got %+v", visa)
	}
	if licensing.Order != 2 || licensing.Duration != "4 weeks" || !licensing.Critical {
		t.Errorf("licensing step malformed: %+v", licensing)
	}
	if len(licensing.Dependencies) != 1 || licensing.Dependencies[0] != 1 {
		t.Errorf("licensing must depend on the visa step, got %v", licensing.Dependencies)
	}
}

func TestIntegrateLicensingWithoutVisa(t *testing.T) {
	sol := IntegrateSolution([]types.AgentAnalysis{
		analysis(agents.AgentLicensing, 42, 0.8, 1e10),
	})
	if len(sol.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(sol.Steps))
	}
	if len(sol.Steps[0].Dependencies) != 0 {
		t.Errorf("licensing step without a visa step must have no dependencies")
	}
	if sol.Steps[0].Order != 1 {
		t.Errorf("licensing step should be first, got order %d", sol.Steps[0].Order)
	}
}

func TestStepDependenciesFormDAG(t *testing.T) {
	sol := IntegrateSolution([]types.AgentAnalysis{
		analysis(agents.AgentVisa, 14, 0.9, 0),
		analysis(agents.AgentLicensing, 28, 0.8, 0),
		analysis(agents.AgentTax, 17, 0.85, 0),
	})
	for _, step := range sol.Steps {
		for _, dep := range step.Dependencies {
			if dep >= step.Order {
				t.Errorf("step %d depends on %d, which is not earlier", step.Order, dep)
			}
		}
	}
}

func TestTotalTimelineIsMaxNotSum(t *testing.T) {
	sol := IntegrateSolution([]types.AgentAnalysis{
		analysis(agents.AgentVisa, 35, 0.8, 0),
		analysis(agents.AgentLicensing, 60, 0.8, 0),
		analysis(agents.AgentTax, 14, 0.8, 0),
	})
	if sol.TotalTimeline != "2 months total" {
		t.Errorf("expected max-based timeline '2 months total', got %q", sol.TotalTimeline)
	}
}

func TestTotalTimelineFormats(t *testing.T) {
	tests := []struct {
		days float64
		want string
	}{
		{10, "10 days total"},
		{17.5, "17.5 days total"},
		{30, "1 months total"},
		{75, "2.5 months total"},
	}
	for _, tt := range tests {
		sol := IntegrateSolution([]types.AgentAnalysis{analysis(agents.AgentVisa, tt.days, 0.8, 0)})
		if sol.TotalTimeline != tt.want {
			t.Errorf("timeline for %v days = %q, want %q", tt.days, sol.TotalTimeline, tt.want)
		}
	}
}

func TestTotalTimelineUndefinedWhenNothingParses(t *testing.T) {
	a := types.AgentAnalysis{Agent: agents.AgentContent, Timeline: "ongoing", Confidence: 0.75}
	sol := IntegrateSolution([]types.AgentAnalysis{a})
	if sol.TotalTimeline != "undefined" {
		t.Errorf("expected undefined timeline, got %q", sol.TotalTimeline)
	}
}

func TestTotalInvestmentIsWorstCase(t *testing.T) {
	sol := IntegrateSolution([]types.AgentAnalysis{
		analysis(agents.AgentVisa, 14, 0.8, 2e9),
		analysis(agents.AgentLicensing, 28, 0.8, 1e10),
	})
	if sol.TotalInvestment != "10B IDR" {
		t.Errorf("expected worst-case 10B IDR, got %q", sol.TotalInvestment)
	}
}

func TestObligationsDeduplicated(t *testing.T) {
	sol := IntegrateSolution([]types.AgentAnalysis{
		analysis(agents.AgentVisa, 14, 0.8, 0, "Annual LKPM report"),
		analysis(agents.AgentLicensing, 28, 0.8, 0, "Annual LKPM report", "Monthly PB1 tax"),
	})
	want := []string{"Annual LKPM report", "Monthly PB1 tax"}
	if len(sol.MonthlyObligations) != len(want) {
		t.Fatalf("expected %v, got %v", want, sol.MonthlyObligations)
	}
	for i := range want {
		if sol.MonthlyObligations[i] != want[i] {
			t.Errorf("obligation %d = %q, want %q", i, sol.MonthlyObligations[i], want[i])
		}
	}
}

func TestObligationsDefaultWhenEmpty(t *testing.T) {
	sol := IntegrateSolution([]types.AgentAnalysis{
		analysis(agents.AgentVisa, 14, 0.8, 0),
	})
	if len(sol.MonthlyObligations) != 2 {
		t.Errorf("expected the two-item default obligation list, got %v", sol.MonthlyObligations)
	}
}

func TestSuccessProbabilityIsMeanConfidence(t *testing.T) {
	sol := IntegrateSolution([]types.AgentAnalysis{
		analysis(agents.AgentVisa, 14, 0.9, 0),
		analysis(agents.AgentTax, 14, 0.8, 0),
		analysis(agents.AgentLegal, 14, 0.7, 0),
	})
	if sol.SuccessProbability != 0.8 {
		t.Errorf("expected mean confidence 0.8, got %v", sol.SuccessProbability)
	}
}

func TestSuccessProbabilityRounding(t *testing.T) {
	sol := IntegrateSolution([]types.AgentAnalysis{
		analysis(agents.AgentVisa, 14, 0.85, 0),
		analysis(agents.AgentTax, 14, 0.8, 0),
		analysis(agents.AgentLegal, 14, 0.8, 0),
	})
	// (0.85+0.8+0.8)/3 = 0.81666... -> 0.82
	if sol.SuccessProbability != 0.82 {
		t.Errorf("expected 0.82, got %v", sol.SuccessProbability)
	}
}

func TestZeroAnalysesTolerated(t *testing.T) {
	sol := IntegrateSolution(nil)
	if sol.SuccessProbability != 0 {
		t.Errorf("zero analyses must yield probability 0, got %v", sol.SuccessProbability)
	}
	if len(sol.Steps) != 0 {
		t.Errorf("zero analyses must yield no steps")
	}
	if sol.TotalTimeline != "undefined" {
		t.Errorf("zero analyses timeline should be undefined, got %q", sol.TotalTimeline)
	}
}

func TestAlternativePlansAreStatic(t *testing.T) {
	a := IntegrateSolution([]types.AgentAnalysis{analysis(agents.AgentVisa, 14, 0.9, 0)})
	b := IntegrateSolution([]types.AgentAnalysis{analysis(agents.AgentTax, 60, 0.5, 1e9)})
	if len(a.AlternativePlans) == 0 || len(a.AlternativePlans) != len(b.AlternativePlans) {
		t.Error("alternative plans are a fixed catalogue, identical across cases")
	}
}
