package main

import (
	"context"
	"flag"
	"time"

	"github.com/dvloznov/finance-copilot/internal/config"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
	"github.com/dvloznov/finance-copilot/internal/llm"
	"github.com/dvloznov/finance-copilot/internal/logger"
	"github.com/dvloznov/finance-copilot/internal/rag"
)

func main() {
	var configPath = flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	log := logger.New()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal().Msg("Usage: ingest [-config config.yaml] <file.pdf> [file.pdf ...]")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatal().Err(err).Msg("Database DSN is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	llmClient, err := llm.NewClient(ctx, cfg.Gemini.GenerationModel, cfg.Gemini.EmbeddingModel, cfg.Gemini.EmbeddingDims)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	ingestor := rag.NewIngestor(llmClient, postgres.NewResourceRepo(pool), log)

	for _, path := range files {
		resource, err := ingestor.Ingest(ctx, path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Ingestion failed")
		}
		log.Info().Str("file", path).Str("resource_id", resource.ID).Msg("Ingestion completed")
	}
}
