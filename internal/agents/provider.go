// Package agents implements the domain analysis providers and the keyword
// selector that routes a case to the right subset of them. Five providers
// exist: visa, licensing, tax, legal, and content. Each produces one
// structured AgentAnalysis per run from a case and a knowledge snapshot.
package agents

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"advisim/internal/knowledge"
	"advisim/internal/types"
)

// Provider ids. The set is closed; new providers register into the
// Registry rather than extending a branch statement.
const (
	AgentVisa      = "visa"
	AgentLicensing = "licensing"
	AgentTax       = "tax"
	AgentLegal     = "legal"
	AgentContent   = "content"
)

// ErrUnknownProvider is returned when a requested provider id is not
// registered.
var ErrUnknownProvider = errors.New("unknown analysis provider")

// AnalysisProvider is the common contract of all domain analysts.
type AnalysisProvider interface {
	// ID returns the stable provider id.
	ID() string

	// Domain returns the knowledge domain the provider consumes, or ""
	// when it needs no knowledge table (content).
	Domain() string

	// Analyze produces a structured analysis of the case. An empty
	// snapshot triggers the provider's fixed fallback advice with reduced
	// confidence; it is not an error.
	Analyze(ctx context.Context, c *types.Case, snap knowledge.Snapshot) (*types.AgentAnalysis, error)
}

// Registry maps provider ids to implementations.
type Registry struct {
	providers map[string]AnalysisProvider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]AnalysisProvider)}
}

// DefaultRegistry returns a registry holding the five standard providers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewVisaProvider())
	r.Register(NewLicensingProvider())
	r.Register(NewTaxProvider())
	r.Register(NewLegalProvider())
	r.Register(NewContentProvider())
	return r
}

// Register adds a provider. A later registration under the same id
// replaces the earlier one.
func (r *Registry) Register(p AnalysisProvider) {
	r.providers[p.ID()] = p
}

// Get resolves a provider id.
func (r *Registry) Get(id string) (AnalysisProvider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
	}
	return p, nil
}

// IDs returns the registered provider ids, sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.providers))
	for id := range r.providers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
