package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// Embed maps one text to a fixed-length vector. Literal "\n" escape
// sequences are collapsed to spaces before embedding so chunk and query
// vectors stay comparable regardless of how the text was serialized.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch maps a batch of texts to vectors, one per input, same order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(normalizeForEmbedding(text), genai.RoleUser)
	}

	resp, err := c.genai.Models.EmbedContent(ctx, c.embeddingModel, contents, &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(c.embeddingDims),
	})
	if err != nil {
		return nil, fmt.Errorf("llm.EmbedBatch: %w: %v", domain.ErrEmbedding, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("llm.EmbedBatch: %w: got %d embeddings for %d inputs",
			domain.ErrEmbedding, len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if len(emb.Values) == 0 {
			return nil, fmt.Errorf("llm.EmbedBatch: %w: empty vector at index %d", domain.ErrEmbedding, i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// Dimensions returns the vector length this embedder produces.
func (c *Client) Dimensions() int {
	return int(c.embeddingDims)
}

func normalizeForEmbedding(text string) string {
	return strings.ReplaceAll(text, `\n`, " ")
}
