// Package insights implements the structured-data question-answering
// pipeline: question → SQL → guard → execution → explanation → narration.
package insights

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator is the structured-output capability of the language model. It
// fills out with JSON conforming to schema, or fails typed.
type Generator interface {
	GenerateObject(ctx context.Context, system, prompt string, schema *genai.Schema, out any) error
}

// Synthesizer turns a user question into exactly one SQL SELECT statement.
type Synthesizer struct {
	gen      Generator
	currency string
}

func NewSynthesizer(gen Generator, currency string) *Synthesizer {
	return &Synthesizer{gen: gen, currency: currency}
}

var querySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"query": {Type: genai.TypeString},
	},
	Required: []string{"query"},
}

// Synthesize generates the query for the question. Any model failure
// propagates untouched; retry policy, if any, belongs to the caller.
func (s *Synthesizer) Synthesize(ctx context.Context, input string) (string, error) {
	var result struct {
		Query string `json:"query"`
	}
	err := s.gen.GenerateObject(ctx,
		synthesizerSystemPrompt(s.currency),
		synthesizerPrompt(input),
		querySchema,
		&result,
	)
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}
	return result.Query, nil
}
