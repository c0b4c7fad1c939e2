package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/finance-copilot/internal/domain"
	"github.com/dvloznov/finance-copilot/internal/logger"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = f.vec
	}
	return out, nil
}

type fakeStore struct {
	results  []domain.RelevanceResult
	err      error
	gotFloor float64
	gotLimit int
}

func (f *fakeStore) CreateWithEmbeddings(ctx context.Context, file string, records []domain.EmbeddingRecord) (*domain.Resource, error) {
	return &domain.Resource{ID: "res-1", File: file}, nil
}

func (f *fakeStore) SearchSimilar(ctx context.Context, vec []float32, floor float64, limit int) ([]domain.RelevanceResult, error) {
	f.gotFloor = floor
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func TestFindRelevantPolicy(t *testing.T) {
	store := &fakeStore{results: []domain.RelevanceResult{
		{Content: "a", Similarity: 0.91, File: "doc.pdf", PageNumber: 2},
		{Content: "b", Similarity: 0.77, File: "doc.pdf", PageNumber: 5},
		{Content: "c", Similarity: 0.51, File: "doc.pdf", PageNumber: 1},
	}}
	r := NewRetriever(&fakeEmbedder{vec: []float32{0.1, 0.2}}, store, logger.NewWithWriter(nil))

	results := r.FindRelevant(context.Background(), "what is compound interest?")

	if store.gotFloor != SimilarityFloor || store.gotLimit != TopK {
		t.Errorf("search called with floor=%v limit=%d, want %v and %d", store.gotFloor, store.gotLimit, SimilarityFloor, TopK)
	}
	if len(results) > TopK {
		t.Errorf("got %d results, want at most %d", len(results), TopK)
	}
	for i, res := range results {
		if res.Similarity <= SimilarityFloor {
			t.Errorf("result %d similarity %v not above floor", i, res.Similarity)
		}
		if i > 0 && results[i-1].Similarity < res.Similarity {
			t.Errorf("similarities not non-increasing at index %d", i)
		}
	}
}

func TestFindRelevantEmbeddingFailureDegrades(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{err: domain.ErrEmbedding}, &fakeStore{}, logger.NewWithWriter(nil))
	if results := r.FindRelevant(context.Background(), "anything"); len(results) != 0 {
		t.Errorf("got %d results after embedding failure, want none", len(results))
	}
}

func TestFindRelevantSearchFailureDegrades(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	r := NewRetriever(&fakeEmbedder{vec: []float32{1}}, store, logger.NewWithWriter(nil))
	if results := r.FindRelevant(context.Background(), "anything"); len(results) != 0 {
		t.Errorf("got %d results after search failure, want none", len(results))
	}
}

func TestFindRelevantNoMatches(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{vec: []float32{1}}, &fakeStore{}, logger.NewWithWriter(nil))
	if results := r.FindRelevant(context.Background(), "off-topic question"); len(results) != 0 {
		t.Errorf("got %d results, want empty sequence", len(results))
	}
}
