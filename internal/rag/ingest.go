package rag

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-copilot/internal/domain"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
)

// Embedder is the embedding capability the ingestor and retriever share.
// Both sides must use the same scheme so vectors stay comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Step is a single stage of the ingestion pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State is the shared state threaded through the ingestion steps.
type State struct {
	FilePath string
	Pages    []string
	Chunks   []domain.Chunk
	Vectors  [][]float32
	Resource *domain.Resource
}

// ExtractPagesStep reads the PDF and extracts per-page text.
type ExtractPagesStep struct{}

func (s *ExtractPagesStep) Execute(ctx context.Context, state *State) error {
	pages, err := ExtractPages(state.FilePath)
	if err != nil {
		return err
	}
	state.Pages = pages
	return nil
}

// ChunkPagesStep splits the extracted pages into word-windows.
type ChunkPagesStep struct {
	chunker *Chunker
}

func (s *ChunkPagesStep) Execute(ctx context.Context, state *State) error {
	state.Chunks = s.chunker.ChunkPages(state.Pages)
	if len(state.Chunks) == 0 {
		return fmt.Errorf("chunk pages: document %s produced no chunks", state.FilePath)
	}
	return nil
}

// EmbedChunksStep embeds all chunks in one batch call.
type EmbedChunksStep struct {
	embedder Embedder
}

func (s *EmbedChunksStep) Execute(ctx context.Context, state *State) error {
	texts := make([]string, len(state.Chunks))
	for i, chunk := range state.Chunks {
		texts[i] = chunk.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	state.Vectors = vectors
	return nil
}

// StoreResourceStep writes the resource and its embeddings transactionally.
type StoreResourceStep struct {
	repo postgres.ResourceRepository
}

func (s *StoreResourceStep) Execute(ctx context.Context, state *State) error {
	records := make([]domain.EmbeddingRecord, len(state.Chunks))
	for i, chunk := range state.Chunks {
		records[i] = domain.EmbeddingRecord{
			Content:    chunk.Content,
			PageNumber: chunk.PageNumber,
			Vector:     state.Vectors[i],
		}
	}
	resource, err := s.repo.CreateWithEmbeddings(ctx, state.FilePath, records)
	if err != nil {
		return err
	}
	state.Resource = resource
	return nil
}

// Ingestor runs the steps in order. Any failure aborts the run; because
// storage is a single transaction at the end, a failed run leaves no
// partial corpus state behind.
type Ingestor struct {
	steps []Step
	log   zerolog.Logger
}

func NewIngestor(embedder Embedder, repo postgres.ResourceRepository, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		steps: []Step{
			&ExtractPagesStep{},
			&ChunkPagesStep{chunker: NewChunker(DefaultChunkWords, DefaultOverlapWords)},
			&EmbedChunksStep{embedder: embedder},
			&StoreResourceStep{repo: repo},
		},
		log: log,
	}
}

// Ingest processes one document file into the corpus.
func (in *Ingestor) Ingest(ctx context.Context, path string) (*domain.Resource, error) {
	state := &State{FilePath: path}
	for i, step := range in.steps {
		if err := step.Execute(ctx, state); err != nil {
			return nil, fmt.Errorf("ingest step %d: %w", i+1, err)
		}
	}
	in.log.Info().
		Str("file", path).
		Int("pages", len(state.Pages)).
		Int("chunks", len(state.Chunks)).
		Str("resource_id", state.Resource.ID).
		Msg("document ingested")
	return state.Resource, nil
}
