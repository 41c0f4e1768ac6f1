package agents

import (
	"context"
	"fmt"

	"advisim/internal/knowledge"
	"advisim/internal/types"
)

// ContentProvider derives the marketing read of a case: which story the
// firm can tell about solving it. It consumes no knowledge table and its
// output is always PUBLIC.
type ContentProvider struct{}

// NewContentProvider creates the content analyst.
func NewContentProvider() *ContentProvider {
	return &ContentProvider{}
}

func (p *ContentProvider) ID() string     { return AgentContent }
func (p *ContentProvider) Domain() string { return "" }

// Analyze implements AnalysisProvider. The snapshot argument is ignored.
func (p *ContentProvider) Analyze(_ context.Context, c *types.Case, _ knowledge.Snapshot) (*types.AgentAnalysis, error) {
	angle := "navigating Indonesian bureaucracy"
	if len(c.Objectives) > 0 {
		angle = c.Objectives[0]
	}

	return &types.AgentAnalysis{
		Agent:    AgentContent,
		Analysis: fmt.Sprintf("Content angle: a first-person journey of %s in Bali, anchored on the concrete steps and their real timelines.", angle),
		Recommendations: []string{
			"Document the process as a step-by-step guide",
			"Publish timeline and cost breakdowns once the case closes",
		},
		Requirements:   []string{"Client consent for anonymized publication"},
		Risks:          []string{"Publishing specifics before approvals complete"},
		Timeline:       "ongoing",
		Confidence:     0.75,
		Classification: types.ClassificationPublic,
	}, nil
}
