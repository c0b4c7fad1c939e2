package insights

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-copilot/internal/domain"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
)

// Result is everything one question produces: the generated query, its
// section-by-section breakdown, the raw rows and the narrated summary.
type Result struct {
	Query        string                      `json:"query"`
	Explanations []domain.ExplanationSection `json:"explanations"`
	Rows         []map[string]any            `json:"rows"`
	Summary      string                      `json:"summary"`
}

// Service runs the full pipeline for one question. Each stage failure
// propagates immediately; nothing is retried and nothing is written.
type Service struct {
	synthesizer *Synthesizer
	explainer   *Explainer
	narrator    *Narrator
	runner      postgres.QueryRunner
	log         zerolog.Logger
}

func NewService(gen Generator, runner postgres.QueryRunner, currency string, log zerolog.Logger) *Service {
	return &Service{
		synthesizer: NewSynthesizer(gen, currency),
		explainer:   NewExplainer(gen),
		narrator:    NewNarrator(gen, currency),
		runner:      runner,
		log:         log,
	}
}

// Ask answers one natural-language question from the expense data.
func (s *Service) Ask(ctx context.Context, input string) (*Result, error) {
	query, err := s.synthesizer.Synthesize(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("Ask: %w", err)
	}
	s.log.Debug().Str("query", query).Msg("query synthesized")

	if err := GuardQuery(query); err != nil {
		return nil, fmt.Errorf("Ask: %w", err)
	}

	rows, err := s.runner.RunSelect(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("Ask: %w", err)
	}
	s.log.Debug().Int("rows", len(rows)).Msg("query executed")

	explanations, err := s.explainer.Explain(ctx, input, query)
	if err != nil {
		return nil, fmt.Errorf("Ask: %w", err)
	}

	summary, err := s.narrator.Narrate(ctx, input, query, rows)
	if err != nil {
		return nil, fmt.Errorf("Ask: %w", err)
	}

	return &Result{
		Query:        query,
		Explanations: explanations,
		Rows:         rows,
		Summary:      summary,
	}, nil
}
