// Package types provides shared type definitions used across advisim packages.
// This package exists to break import cycles between agents, engine, and
// montecarlo. Types in this package should be foundational data structures
// with no complex dependencies.
package types

import (
	"time"
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classification is the sensitivity tier of an analysis or result.
type Classification string

const (
	ClassificationPublic       Classification = "PUBLIC"
	ClassificationInternal     Classification = "INTERNAL"
	ClassificationConfidential Classification = "CONFIDENTIAL"
)

// rank orders classifications from least to most restrictive.
func (c Classification) rank() int {
	switch c {
	case ClassificationConfidential:
		return 2
	case ClassificationInternal:
		return 1
	default:
		return 0
	}
}

// MoreRestrictive reports whether c is stricter than other.
func (c Classification) MoreRestrictive(other Classification) bool {
	return c.rank() > other.rank()
}

// MostRestrictive returns the strictest classification among the given
// analyses. An empty slice yields PUBLIC.
func MostRestrictive(analyses []AgentAnalysis) Classification {
	overall := ClassificationPublic
	for _, a := range analyses {
		if a.Classification.MoreRestrictive(overall) {
			overall = a.Classification
		}
	}
	return overall
}

// =============================================================================
// CASE
// =============================================================================

// Urgency is the client-facing priority of a case.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Case is one client situation to analyze. Immutable once produced by the
// parser.
type Case struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Entities    []string  `json:"entities"`
	Objectives  []string  `json:"objectives"`
	Constraints []string  `json:"constraints"`
	Urgency     Urgency   `json:"urgency"`
	Timestamp   time.Time `json:"timestamp"`
}

// =============================================================================
// AGENT ANALYSIS
// =============================================================================

// AgentAnalysis is one domain provider's structured read of a case.
type AgentAnalysis struct {
	Agent           string         `json:"agent"`
	Analysis        string         `json:"analysis"`
	Recommendations []string       `json:"recommendations"`
	Requirements    []string       `json:"requirements"`
	Risks           []string       `json:"risks"`
	Timeline        string         `json:"timeline"`
	// TimelineDays is the normalized day count parsed from Timeline.
	// Zero with TimelineKnown=false means the text was unparseable and the
	// value must be treated as missing, never as zero days.
	TimelineDays       float64        `json:"timeline_days,omitempty"`
	TimelineKnown      bool           `json:"timeline_known"`
	Confidence         float64        `json:"confidence"`
	Classification     Classification `json:"classification"`
	InvestmentEstimate float64        `json:"investment_estimate,omitempty"`
	Obligations        []string       `json:"obligations,omitempty"`
}

// ConflictResolution records a detected contradiction between two analyses.
type ConflictResolution struct {
	Agents     [2]string `json:"agents"`
	Issue      string    `json:"issue"`
	Resolution string    `json:"resolution"`
	RiskLevel  string    `json:"risk_level"` // low|medium|high
}

// =============================================================================
// INTEGRATED SOLUTION
// =============================================================================

// SolutionStep is one ordered action in the integrated plan.
// Dependencies reference earlier step orders only, so the steps form a DAG.
type SolutionStep struct {
	Order        int    `json:"order"` // 1-based
	Description  string `json:"description"`
	Responsible  string `json:"responsible"`
	Duration     string `json:"duration"`
	Dependencies []int  `json:"dependencies,omitempty"`
	Critical     bool   `json:"critical"`
}

// IntegratedSolution is the merged, ordered action plan for a case.
type IntegratedSolution struct {
	Summary            string         `json:"summary"`
	Steps              []SolutionStep `json:"steps"`
	TotalTimeline      string         `json:"total_timeline"`
	TotalInvestment    string         `json:"total_investment"`
	MonthlyObligations []string       `json:"monthly_obligations"`
	SuccessProbability float64        `json:"success_probability"`
	AlternativePlans   []string       `json:"alternative_plans"`
}

// ContentOpportunity is a marketing angle derived from a case and its
// solution.
type ContentOpportunity struct {
	Type           string   `json:"type"` // immediate|campaign|educational|case_study
	Title          string   `json:"title"`
	Angle          string   `json:"angle"`
	Formats        []string `json:"formats"`
	ViralPotential float64  `json:"viral_potential"`
	Timeline       string   `json:"timeline"`
}

// =============================================================================
// SIMULATION RESULT
// =============================================================================

// SimulationResult is the full output of one case analysis run.
type SimulationResult struct {
	CaseID               string               `json:"case_id"`
	Mode                 string               `json:"mode,omitempty"`
	Agents               []string             `json:"agents"`
	IndividualAnalyses   []AgentAnalysis      `json:"individual_analyses"`
	IntegratedSolution   IntegratedSolution   `json:"integrated_solution"`
	Conflicts            []ConflictResolution `json:"conflicts"`
	ContentOpportunities []ContentOpportunity `json:"content_opportunities"`
	Classification       Classification       `json:"classification"`
	Timestamp            time.Time            `json:"timestamp"`
}
