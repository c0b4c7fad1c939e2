// Package config loads application configuration from an optional YAML file
// plus environment variables (.env supported via godotenv).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// GeminiConfig holds model selection for the Gemini API. The API key itself
// always comes from the GEMINI_API_KEY environment variable.
type GeminiConfig struct {
	GenerationModel string `yaml:"generation_model"`
	EmbeddingModel  string `yaml:"embedding_model"`
	EmbeddingDims   int    `yaml:"embedding_dims"`
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	DSNEnv string `yaml:"dsn_env"`
}

// AssistantConfig holds knobs for the conversational surfaces.
type AssistantConfig struct {
	Currency string `yaml:"currency"`
}

// SeedConfig configures synthetic data generation.
type SeedConfig struct {
	RandomSeed    int64  `yaml:"random_seed"`
	TotalExpenses int    `yaml:"total_expenses"`
	StartDate     string `yaml:"start_date"`
}

// Config is the root application configuration.
type Config struct {
	Gemini    GeminiConfig    `yaml:"gemini"`
	Database  DatabaseConfig  `yaml:"database"`
	Assistant AssistantConfig `yaml:"assistant"`
	Seed      SeedConfig      `yaml:"seed"`
}

// Load reads the config from path, falling back to defaults when the file
// does not exist. A .env file in the working directory is loaded first so
// that GEMINI_API_KEY and the database DSN can live there during development.
func Load(path string) (*Config, error) {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// DSN resolves the database connection string from the configured
// environment variable.
func (c *Config) DSN() (string, error) {
	dsn := os.Getenv(c.Database.DSNEnv)
	if dsn == "" {
		return "", fmt.Errorf("config: %s is not set", c.Database.DSNEnv)
	}
	return dsn, nil
}

func defaults() *Config {
	return &Config{
		Gemini: GeminiConfig{
			GenerationModel: "gemini-2.0-flash",
			EmbeddingModel:  "gemini-embedding-001",
			EmbeddingDims:   1536,
		},
		Database:  DatabaseConfig{DSNEnv: "DATABASE_URL"},
		Assistant: AssistantConfig{Currency: "SGD"},
		Seed: SeedConfig{
			RandomSeed:    1,
			TotalExpenses: 300,
			StartDate:     "2024-01-01",
		},
	}
}

func applyDefaults(cfg *Config) {
	def := defaults()
	if cfg.Gemini.GenerationModel == "" {
		cfg.Gemini.GenerationModel = def.Gemini.GenerationModel
	}
	if cfg.Gemini.EmbeddingModel == "" {
		cfg.Gemini.EmbeddingModel = def.Gemini.EmbeddingModel
	}
	if cfg.Gemini.EmbeddingDims == 0 {
		cfg.Gemini.EmbeddingDims = def.Gemini.EmbeddingDims
	}
	if cfg.Database.DSNEnv == "" {
		cfg.Database.DSNEnv = def.Database.DSNEnv
	}
	if cfg.Assistant.Currency == "" {
		cfg.Assistant.Currency = def.Assistant.Currency
	}
	if cfg.Seed.TotalExpenses == 0 {
		cfg.Seed.TotalExpenses = def.Seed.TotalExpenses
	}
	if cfg.Seed.StartDate == "" {
		cfg.Seed.StartDate = def.Seed.StartDate
	}
}
