package rag

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-copilot/internal/domain"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
)

// Core ranking policy: keep results strictly above the similarity floor,
// return at most TopK. Fixed design constants, not tunable per call.
const (
	TopK            = 4
	SimilarityFloor = 0.5
)

// Retriever finds the stored chunks most similar to a query.
type Retriever struct {
	embedder Embedder
	store    postgres.ResourceRepository
	log      zerolog.Logger
}

func NewRetriever(embedder Embedder, store postgres.ResourceRepository, log zerolog.Logger) *Retriever {
	return &Retriever{embedder: embedder, store: store, log: log}
}

// FindRelevant embeds the query and returns the closest chunks, ranked
// descending by similarity. Retrieval never aborts the conversation: an
// embedding or search failure degrades to an empty result.
func (r *Retriever) FindRelevant(ctx context.Context, query string) []domain.RelevanceResult {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to embed query")
		return nil
	}

	results, err := r.store.SearchSimilar(ctx, vec, SimilarityFloor, TopK)
	if err != nil {
		r.log.Error().Err(err).Msg("similarity search failed")
		return nil
	}
	return results
}
