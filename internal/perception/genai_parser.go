package perception

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"advisim/internal/logging"
	"advisim/internal/types"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// =============================================================================
// GOOGLE GENAI CASE PARSER
// =============================================================================

// GenAIParser extracts structured case data using Google's Gemini API with
// a constrained JSON response schema.
type GenAIParser struct {
	client *genai.Client
	model  string
}

// caseSchema constrains the model to the exact shape parsedCase decodes.
var caseSchema = &genai.Schema{
	Type: "OBJECT",
	Properties: map[string]*genai.Schema{
		"entities": {
			Type:        "ARRAY",
			Description: "Concrete legal/business entities mentioned in the case",
			Items:       &genai.Schema{Type: "STRING"},
		},
		"objectives": {
			Type:        "ARRAY",
			Description: "What the client wants to achieve",
			Items:       &genai.Schema{Type: "STRING"},
		},
		"constraints": {
			Type:        "ARRAY",
			Description: "Budget, timing, or situational constraints",
			Items:       &genai.Schema{Type: "STRING"},
		},
		"urgency": {
			Type: "STRING",
			Enum: []string{"low", "medium", "high", "critical"},
		},
	},
	Required: []string{"entities", "objectives", "constraints", "urgency"},
}

type parsedCase struct {
	Entities    []string `json:"entities"`
	Objectives  []string `json:"objectives"`
	Constraints []string `json:"constraints"`
	Urgency     string   `json:"urgency"`
}

// NewGenAIParser creates a Gemini-backed case parser.
func NewGenAIParser(ctx context.Context, apiKey, model string) (*GenAIParser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIParser{client: client, model: model}, nil
}

const parsePromptPrefix = `Extract the structured advisory case from the client message below.
Entities are concrete things (PT PMA, KITAS, villa, land plot). Objectives are
what the client wants done. Constraints are limits on how. Urgency reflects the
stated time pressure, critical only for overstay/enforcement situations.

Client message:
`

// Parse implements CaseParser.
func (p *GenAIParser) Parse(ctx context.Context, text string) (*types.Case, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "genai case parse")
	defer timer.Stop()

	contents := []*genai.Content{
		genai.NewContentFromText(parsePromptPrefix+text, genai.RoleUser),
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   caseSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("genai case parse failed: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	var pc parsedCase
	if err := json.Unmarshal([]byte(raw), &pc); err != nil {
		return nil, fmt.Errorf("genai returned unparseable case json: %w", err)
	}

	urgency := types.Urgency(pc.Urgency)
	switch urgency {
	case types.UrgencyLow, types.UrgencyMedium, types.UrgencyHigh, types.UrgencyCritical:
	default:
		urgency = types.UrgencyLow
	}

	return &types.Case{
		ID:          uuid.NewString(),
		Description: text,
		Entities:    pc.Entities,
		Objectives:  pc.Objectives,
		Constraints: pc.Constraints,
		Urgency:     urgency,
		Timestamp:   time.Now(),
	}, nil
}
