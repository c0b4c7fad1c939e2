package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MerchantRepo implements MerchantRepository.
type MerchantRepo struct {
	pool *pgxpool.Pool
}

func NewMerchantRepo(pool *pgxpool.Pool) *MerchantRepo {
	return &MerchantRepo{pool: pool}
}

// CreateMany inserts merchants keyed by unique name and returns name → id.
func (r *MerchantRepo) CreateMany(ctx context.Context, names []string) (map[string]string, error) {
	return upsertDimension(ctx, r.pool, `"Merchant"`, names)
}
