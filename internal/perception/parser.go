// Package perception turns free-text client cases into structured Case
// values. The primary parser is backed by a language model; a keyword
// heuristic covers the fallback path so analysis never depends on the
// model being reachable.
package perception

import (
	"context"
	"sort"
	"strings"
	"time"

	"advisim/internal/logging"
	"advisim/internal/types"

	"github.com/google/uuid"
)

// CaseParser extracts structured case data from free text.
type CaseParser interface {
	Parse(ctx context.Context, text string) (*types.Case, error)
}

// =============================================================================
// HEURISTIC PARSER
// =============================================================================

// HeuristicParser extracts entities, objectives, constraints, and urgency
// with fixed keyword rules. It never fails and serves as the documented
// fallback when the model parser is unavailable.
type HeuristicParser struct{}

// NewHeuristicParser creates a heuristic parser.
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

var entityKeywords = map[string]string{
	"pt pma":     "PT PMA",
	"pt-pma":     "PT PMA",
	"kitas":      "KITAS",
	"villa":      "villa",
	"restaurant": "restaurant",
	"land":       "land",
	"property":   "property",
	"company":    "company",
	"visa":       "visa",
	"npwp":       "NPWP",
}

var objectiveKeywords = map[string]string{
	"open":    "establish operations",
	"start":   "establish operations",
	"setup":   "establish operations",
	"set up":  "establish operations",
	"buy":     "acquire assets",
	"lease":   "secure property rights",
	"rent":    "secure property rights",
	"invest":  "invest in Indonesia",
	"stay":    "secure residence",
	"live":    "secure residence",
	"work":    "obtain work authorization",
	"hire":    "hire staff",
	"optimiz": "optimize tax position",
	"reduce":  "optimize tax position",
}

var constraintKeywords = map[string]string{
	"budget":   "budget limited",
	"cheap":    "budget limited",
	"deadline": "time constrained",
	"before":   "time constrained",
	"remote":   "remote management",
	"abroad":   "remote management",
	"family":   "family relocation",
}

// Parse implements CaseParser. The returned error is always nil; the
// signature matches the interface so the fallback wrapper stays trivial.
func (p *HeuristicParser) Parse(_ context.Context, text string) (*types.Case, error) {
	lower := strings.ToLower(text)

	var entities, objectives, constraints []string
	seen := map[string]bool{}
	for kw, entity := range entityKeywords {
		if strings.Contains(lower, kw) && !seen[entity] {
			seen[entity] = true
			entities = append(entities, entity)
		}
	}
	for kw, obj := range objectiveKeywords {
		if strings.Contains(lower, kw) && !seen[obj] {
			seen[obj] = true
			objectives = append(objectives, obj)
		}
	}
	for kw, con := range constraintKeywords {
		if strings.Contains(lower, kw) && !seen[con] {
			seen[con] = true
			constraints = append(constraints, con)
		}
	}
	if len(objectives) == 0 {
		objectives = []string{"clarify requirements"}
	}

	return &types.Case{
		ID:          uuid.NewString(),
		Description: text,
		Entities:    sorted(entities),
		Objectives:  sorted(objectives),
		Constraints: sorted(constraints),
		Urgency:     detectUrgency(lower),
		Timestamp:   time.Now(),
	}, nil
}

func detectUrgency(lower string) types.Urgency {
	switch {
	case strings.Contains(lower, "immediately") || strings.Contains(lower, "emergency") ||
		strings.Contains(lower, "overstay") || strings.Contains(lower, "deportation"):
		return types.UrgencyCritical
	case strings.Contains(lower, "urgent") || strings.Contains(lower, "asap") ||
		strings.Contains(lower, "this week"):
		return types.UrgencyHigh
	case strings.Contains(lower, "soon") || strings.Contains(lower, "next month"):
		return types.UrgencyMedium
	default:
		return types.UrgencyLow
	}
}

func sorted(in []string) []string {
	// Map iteration order is random; sort so parsed cases are stable.
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

// =============================================================================
// FALLBACK WRAPPER
// =============================================================================

// FallbackParser tries a primary parser and degrades to the heuristic on
// any error. No retry policy: one attempt, then fallback.
type FallbackParser struct {
	primary  CaseParser
	fallback CaseParser
}

// NewFallbackParser wraps primary with the heuristic fallback. A nil
// primary means the heuristic runs directly.
func NewFallbackParser(primary CaseParser) *FallbackParser {
	return &FallbackParser{
		primary:  primary,
		fallback: NewHeuristicParser(),
	}
}

// Parse implements CaseParser.
func (p *FallbackParser) Parse(ctx context.Context, text string) (*types.Case, error) {
	if p.primary != nil {
		c, err := p.primary.Parse(ctx, text)
		if err == nil {
			return c, nil
		}
		logging.PerceptionWarn("primary parser failed, using heuristic: %v", err)
	}
	return p.fallback.Parse(ctx, text)
}
