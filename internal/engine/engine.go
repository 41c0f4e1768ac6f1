// Package engine composes the advisory pipeline: parse the case, select
// and run the domain providers, scan for conflicts, integrate the plan,
// resolve classification, and derive content opportunities.
package engine

import (
	"context"
	"fmt"
	"time"

	"advisim/internal/agents"
	"advisim/internal/knowledge"
	"advisim/internal/logging"
	"advisim/internal/perception"
	"advisim/internal/types"
)

// Engine is the case analysis pipeline.
type Engine struct {
	parser   perception.CaseParser
	registry *agents.Registry
	kb       *knowledge.Base
	history  History
}

// New creates an Engine. A nil history disables recording.
func New(parser perception.CaseParser, registry *agents.Registry, kb *knowledge.Base, history History) *Engine {
	return &Engine{
		parser:   parser,
		registry: registry,
		kb:       kb,
		history:  history,
	}
}

// SimulateCase runs the full advisory pipeline over free case text.
// An empty agent selection is not an error: the result then carries no
// analyses and a zero success probability.
func (e *Engine) SimulateCase(ctx context.Context, caseText, mode string) (*types.SimulationResult, error) {
	timer := logging.StartTimer(logging.CategoryEngine, "SimulateCase")
	defer timer.Stop()

	c, err := e.parser.Parse(ctx, caseText)
	if err != nil {
		return nil, fmt.Errorf("case parsing failed: %w", err)
	}

	selected := agents.SelectAgents(c.Description, mode)
	logging.Engine("case %s: %d agents selected (mode %q)", c.ID, len(selected), mode)

	analyses := make([]types.AgentAnalysis, 0, len(selected))
	for _, id := range selected {
		provider, err := e.registry.Get(id)
		if err != nil {
			return nil, fmt.Errorf("agent selection produced %q: %w", id, err)
		}

		var snap knowledge.Snapshot
		if domain := provider.Domain(); domain != "" {
			snap = e.kb.Snapshot(domain)
		}

		analysis, err := provider.Analyze(ctx, c, snap)
		if err != nil {
			return nil, fmt.Errorf("agent %s failed: %w", id, err)
		}
		analyses = append(analyses, *analysis)
	}

	solution := IntegrateSolution(analyses)
	conflicts := DetectConflicts(analyses)
	opportunities := IdentifyContentOpportunities(c, solution)

	result := &types.SimulationResult{
		CaseID:               c.ID,
		Mode:                 mode,
		Agents:               selected,
		IndividualAnalyses:   analyses,
		IntegratedSolution:   solution,
		Conflicts:            conflicts,
		ContentOpportunities: opportunities,
		Classification:       types.MostRestrictive(analyses),
		Timestamp:            time.Now(),
	}

	if e.history != nil {
		if err := e.history.Append(result); err != nil {
			// History is advisory; a failed append must not fail the analysis.
			logging.StoreError("failed to record simulation result: %v", err)
		}
	}

	return result, nil
}
