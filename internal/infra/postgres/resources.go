package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// ResourceRepo implements ResourceRepository.
type ResourceRepo struct {
	pool *pgxpool.Pool
}

func NewResourceRepo(pool *pgxpool.Pool) *ResourceRepo {
	return &ResourceRepo{pool: pool}
}

// CreateWithEmbeddings inserts the resource row and every embedding record
// in one transaction. If any insert fails the whole document is rolled
// back; the corpus never holds a partially ingested resource.
func (r *ResourceRepo) CreateWithEmbeddings(ctx context.Context, file string, records []domain.EmbeddingRecord) (*domain.Resource, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("CreateWithEmbeddings: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	resource := &domain.Resource{ID: uuid.NewString(), File: file}
	_, err = tx.Exec(ctx, `INSERT INTO "Resource" (id, file) VALUES ($1, $2)`, resource.ID, resource.File)
	if err != nil {
		return nil, fmt.Errorf("CreateWithEmbeddings: insert resource: %w", err)
	}

	for _, rec := range records {
		_, err := tx.Exec(ctx, `
			INSERT INTO "Embedding" (id, "resourceId", content, "pageNumber", embedding)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), resource.ID, rec.Content, rec.PageNumber, pgvector.NewVector(rec.Vector))
		if err != nil {
			return nil, fmt.Errorf("CreateWithEmbeddings: insert embedding (page %d): %w", rec.PageNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("CreateWithEmbeddings: commit: %w", err)
	}
	return resource, nil
}

// SearchSimilar ranks stored chunks by cosine similarity to vec using the
// pgvector distance operator, keeping rows strictly above floor.
func (r *ResourceRepo) SearchSimilar(ctx context.Context, vec []float32, floor float64, limit int) ([]domain.RelevanceResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			e.content,
			1 - (e.embedding <=> $1) AS similarity,
			r.file,
			e."pageNumber"
		FROM "Embedding" e
		JOIN "Resource" r ON r.id = e."resourceId"
		WHERE 1 - (e.embedding <=> $1) > $2
		ORDER BY similarity DESC
		LIMIT $3
	`, pgvector.NewVector(vec), floor, limit)
	if err != nil {
		return nil, fmt.Errorf("SearchSimilar: %w", err)
	}
	defer rows.Close()

	var results []domain.RelevanceResult
	for rows.Next() {
		var res domain.RelevanceResult
		if err := rows.Scan(&res.Content, &res.Similarity, &res.File, &res.PageNumber); err != nil {
			return nil, fmt.Errorf("SearchSimilar: scan: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
