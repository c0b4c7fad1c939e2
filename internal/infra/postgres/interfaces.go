package postgres

import (
	"context"
	"time"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// CategoryRepository provides lookups over the Category dimension.
type CategoryRepository interface {
	// GetByName resolves a category by name, case-insensitively. Returns
	// domain.ErrUnknownCategory when no such category exists.
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	ListNames(ctx context.Context) ([]string, error)
	CreateMany(ctx context.Context, names []string) (map[string]string, error)
}

// MerchantRepository provides lookups over the Merchant dimension.
type MerchantRepository interface {
	CreateMany(ctx context.Context, names []string) (map[string]string, error)
}

// ExpenseRepository provides the typed read operations the tool-augmented
// chat dispatches to, plus batch insertion for seeding.
type ExpenseRepository interface {
	InsertBatch(ctx context.Context, expenses []domain.Expense) error
	// AggregateByCategory sums signed amounts over [start, end]. categoryID
	// may be empty, meaning no category filter.
	AggregateByCategory(ctx context.Context, categoryID string, start, end time.Time) (*domain.ExpenseSummary, error)
	// LatestByCategory returns the most recent expense by occurrence date.
	// A category with no rows yields a not-found result, not an error.
	LatestByCategory(ctx context.Context, categoryID string) (*domain.LatestExpense, error)
}

// QueryRunner executes a guarded, read-only SQL statement verbatim.
type QueryRunner interface {
	RunSelect(ctx context.Context, query string) ([]map[string]any, error)
}

// ResourceRepository owns the document corpus: resources, their embedded
// chunks and vector similarity search.
type ResourceRepository interface {
	// CreateWithEmbeddings inserts a resource and all of its embedding
	// records in a single transaction; a failure leaves no partial rows.
	CreateWithEmbeddings(ctx context.Context, file string, records []domain.EmbeddingRecord) (*domain.Resource, error)
	// SearchSimilar returns chunks whose cosine similarity to vec is
	// strictly greater than floor, ordered descending, at most limit rows.
	SearchSimilar(ctx context.Context, vec []float32, floor float64, limit int) ([]domain.RelevanceResult, error)
}
