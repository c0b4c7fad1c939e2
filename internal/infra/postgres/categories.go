package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// CategoryRepo implements CategoryRepository.
type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

// GetByName resolves a category by name, case-insensitively.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	var cat domain.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM "Category" WHERE lower(name) = lower($1)`,
		name,
	).Scan(&cat.ID, &cat.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("GetByName: %w: %q", domain.ErrUnknownCategory, name)
	}
	if err != nil {
		return nil, fmt.Errorf("GetByName: %w", err)
	}
	return &cat, nil
}

// ListNames returns all category names ordered alphabetically.
func (r *CategoryRepo) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM "Category" ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ListNames: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ListNames: scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CreateMany inserts categories keyed by unique name and returns name → id.
// Existing names are left untouched and their ids returned.
func (r *CategoryRepo) CreateMany(ctx context.Context, names []string) (map[string]string, error) {
	return upsertDimension(ctx, r.pool, `"Category"`, names)
}

// upsertDimension is shared by the Category and Merchant repos: both are
// (id, unique name) lookup tables populated during seeding.
func upsertDimension(ctx context.Context, pool *pgxpool.Pool, table string, names []string) (map[string]string, error) {
	ids := make(map[string]string, len(names))
	for _, name := range names {
		var id string
		err := pool.QueryRow(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, name)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, table), uuid.NewString(), name).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("upsertDimension: %s %q: %w", table, name, err)
		}
		ids[name] = id
	}
	return ids, nil
}
