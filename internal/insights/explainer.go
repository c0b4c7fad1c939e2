package insights

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// Explainer decomposes a generated SQL query into human-readable segments.
// The breakdown comes from a structured model call, not from a real SQL
// parser; parsing fidelity is best-effort.
type Explainer struct {
	gen Generator
}

func NewExplainer(gen Generator) *Explainer {
	return &Explainer{gen: gen}
}

var explanationsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"explanations": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"section":     {Type: genai.TypeString},
					"explanation": {Type: genai.TypeString},
				},
				Required: []string{"section", "explanation"},
			},
		},
	},
	Required: []string{"explanations"},
}

// Explain returns one (section, explanation) pair per syntactic clause of
// the query, deduplicating section strings in encounter order. Empty
// explanations are kept.
func (e *Explainer) Explain(ctx context.Context, question, sqlQuery string) ([]domain.ExplanationSection, error) {
	var result struct {
		Explanations []domain.ExplanationSection `json:"explanations"`
	}
	err := e.gen.GenerateObject(ctx,
		explainerSystemPrompt,
		explainerPrompt(question, sqlQuery),
		explanationsSchema,
		&result,
	)
	if err != nil {
		return nil, fmt.Errorf("explain: %w", err)
	}
	return dedupeSections(result.Explanations), nil
}

// dedupeSections keeps the first occurrence of each section string so the
// sequence satisfies the uniqueness contract even when the model repeats
// itself.
func dedupeSections(sections []domain.ExplanationSection) []domain.ExplanationSection {
	seen := make(map[string]bool, len(sections))
	out := sections[:0]
	for _, s := range sections {
		if seen[s.Section] {
			continue
		}
		seen[s.Section] = true
		out = append(out, s)
	}
	return out
}
