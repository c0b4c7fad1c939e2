// Package llm wraps the Gemini API behind the three capabilities the
// pipelines need: freeform text generation, structured (schema-validated)
// generation and text embeddings.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// Client is a thin wrapper around the GenAI SDK bound to one generation
// model and one embedding model.
type Client struct {
	genai          *genai.Client
	model          string
	embeddingModel string
	embeddingDims  int32
}

// NewClient creates a Gemini client. The API key is read from the
// environment by the SDK (GEMINI_API_KEY / GOOGLE_API_KEY).
func NewClient(ctx context.Context, model, embeddingModel string, embeddingDims int) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("llm.NewClient: create genai client: %w", err)
	}
	return &Client{
		genai:          client,
		model:          model,
		embeddingModel: embeddingModel,
		embeddingDims:  int32(embeddingDims),
	}, nil
}

// GenerateText runs a plain prompt with an optional system instruction and
// returns the model's text. An empty response counts as a generation failure.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("llm.GenerateText: %w: %v", domain.ErrGeneration, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("llm.GenerateText: empty response: %w", domain.ErrGeneration)
	}
	return text, nil
}

// GenerateObject asks the model for JSON conforming to schema and decodes it
// into out. Any model failure, empty response or non-conforming payload is
// reported as a generation failure; no retry is attempted here.
func (c *Client) GenerateObject(ctx context.Context, system, prompt string, schema *genai.Schema, out any) error {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return fmt.Errorf("llm.GenerateObject: %w: %v", domain.ErrGeneration, err)
	}

	raw := resp.Text()
	if raw == "" {
		return fmt.Errorf("llm.GenerateObject: empty response: %w", domain.ErrGeneration)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("llm.GenerateObject: %w: decode structured output: %v", domain.ErrGeneration, err)
	}
	return nil
}

// GenerateWithTools runs one generation turn over an explicit message
// history with function declarations attached. The caller owns the loop:
// it inspects the returned candidate content for function calls, executes
// them and appends function responses to the history.
func (c *Client) GenerateWithTools(ctx context.Context, system string, history []*genai.Content, tools []*genai.FunctionDeclaration) (*genai.Content, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{FunctionDeclarations: tools}},
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, history, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm.GenerateWithTools: %w: %v", domain.ErrGeneration, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("llm.GenerateWithTools: no candidates: %w", domain.ErrGeneration)
	}
	return resp.Candidates[0].Content, nil
}
