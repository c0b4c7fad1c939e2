package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/finance-copilot/internal/config"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
	"github.com/dvloznov/finance-copilot/internal/logger"
)

func main() {
	var configPath = flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatal().Err(err).Msg("Database DSN is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,

		`CREATE TABLE IF NOT EXISTS "Category" (
			id   text PRIMARY KEY,
			name text NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS "Merchant" (
			id   text PRIMARY KEY,
			name text NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS "Expense" (
			id           text PRIMARY KEY,
			amount       double precision NOT NULL,
			date         timestamptz NOT NULL,
			"categoryId" text NOT NULL REFERENCES "Category"(id),
			"merchantId" text NOT NULL REFERENCES "Merchant"(id),
			"createdAt"  timestamptz NOT NULL DEFAULT now()
		)`,

		`CREATE INDEX IF NOT EXISTS expense_category_date_idx ON "Expense" ("categoryId", date)`,

		`CREATE TABLE IF NOT EXISTS "Resource" (
			id   text PRIMARY KEY,
			file text NOT NULL
		)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "Embedding" (
			id           text PRIMARY KEY,
			"resourceId" text NOT NULL REFERENCES "Resource"(id) ON DELETE CASCADE,
			content      text NOT NULL,
			"pageNumber" integer NOT NULL,
			embedding    vector(%d) NOT NULL
		)`, cfg.Gemini.EmbeddingDims),

		`CREATE INDEX IF NOT EXISTS embedding_hnsw_idx ON "Embedding" USING hnsw (embedding vector_cosine_ops)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatal().Err(err).Str("statement", stmt).Msg("Migration statement failed")
		}
	}

	log.Info().Int("statements", len(statements)).Msg("Migration completed")
}
