// Package postgres implements the repositories over a Postgres database
// with the pgvector extension. Table names follow the Prisma-style schema
// ("Expense", "Category", "Merchant", "Resource", "Embedding") that the
// query synthesizer prompt describes.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// NewPool creates a connection pool and registers the pgvector types on
// every connection so []float32 vectors round-trip as vector columns.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.NewPool: parse config: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.NewPool: connect: %w", err)
	}
	return pool, nil
}
