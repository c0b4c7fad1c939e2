package main

import (
	"context"
	"flag"
	"time"

	"github.com/dvloznov/finance-copilot/internal/config"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
	"github.com/dvloznov/finance-copilot/internal/logger"
	"github.com/dvloznov/finance-copilot/internal/seed"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to config file")
		total      = flag.Int("total", 0, "Total expenses to generate (overrides config)")
	)
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *total > 0 {
		cfg.Seed.TotalExpenses = *total
	}

	start, err := time.Parse("2006-01-02", cfg.Seed.StartDate)
	if err != nil {
		log.Fatal().Err(err).Str("start_date", cfg.Seed.StartDate).Msg("Invalid seed start date")
	}

	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatal().Err(err).Msg("Database DSN is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	seeder := seed.NewSeeder(
		postgres.NewCategoryRepo(pool),
		postgres.NewMerchantRepo(pool),
		postgres.NewExpenseRepo(pool),
		cfg.Seed.RandomSeed,
		log,
	)

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if err := seeder.Run(ctx, start, end, cfg.Seed.TotalExpenses); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	log.Info().
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Int("total", cfg.Seed.TotalExpenses).
		Msg("Seeding completed")
}
