package insights

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/dvloznov/finance-copilot/internal/domain"
	"github.com/dvloznov/finance-copilot/internal/logger"
)

// fakeGenerator returns canned JSON payloads keyed by call order.
type fakeGenerator struct {
	responses []string
	calls     int
	err       error
}

func (f *fakeGenerator) GenerateObject(ctx context.Context, system, prompt string, schema *genai.Schema, out any) error {
	if f.err != nil {
		return f.err
	}
	if f.calls >= len(f.responses) {
		return errors.New("fakeGenerator: no response configured")
	}
	raw := f.responses[f.calls]
	f.calls++
	return json.Unmarshal([]byte(raw), out)
}

type fakeRunner struct {
	rows []map[string]any
	got  string
	err  error
}

func (f *fakeRunner) RunSelect(ctx context.Context, query string) ([]map[string]any, error) {
	f.got = query
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func TestServiceAsk(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"query": "SELECT c.name, FLOOR(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END)) AS total FROM \"Expense\" e JOIN \"Category\" c ON e.\"categoryId\" = c.id WHERE LOWER(c.name) ILIKE '%food%' GROUP BY c.name"}`,
		`{"explanations": [{"section": "SELECT c.name", "explanation": "picks the category name"}, {"section": "GROUP BY c.name", "explanation": ""}]}`,
		`{"explanation": "You spent a total of 412 SGD on food."}`,
	}}
	runner := &fakeRunner{rows: []map[string]any{{"name": "food", "total": float64(412)}}}

	svc := NewService(gen, runner, "SGD", logger.NewWithWriter(nil))
	result, err := svc.Ask(context.Background(), "How much did I spend on food last month?")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	if result.Query == "" || runner.got != result.Query {
		t.Errorf("executed query %q does not match synthesized query %q", runner.got, result.Query)
	}
	if len(result.Explanations) != 2 {
		t.Errorf("got %d explanations, want 2", len(result.Explanations))
	}
	if result.Summary == "" {
		t.Error("summary is empty")
	}
	if len(result.Rows) != 1 {
		t.Errorf("got %d rows, want 1", len(result.Rows))
	}
}

func TestServiceAskRejectsUnsafeQuery(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"query": "UPDATE expense SET amount = 0"}`,
	}}
	runner := &fakeRunner{}

	svc := NewService(gen, runner, "SGD", logger.NewWithWriter(nil))
	_, err := svc.Ask(context.Background(), "zero out my expenses")
	if !errors.Is(err, domain.ErrUnsafeQuery) {
		t.Fatalf("got %v, want ErrUnsafeQuery", err)
	}
	if runner.got != "" {
		t.Errorf("unsafe query reached the executor: %q", runner.got)
	}
}

func TestServiceAskPropagatesGenerationError(t *testing.T) {
	gen := &fakeGenerator{err: domain.ErrGeneration}
	svc := NewService(gen, &fakeRunner{}, "SGD", logger.NewWithWriter(nil))

	_, err := svc.Ask(context.Background(), "anything")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("got %v, want ErrGeneration", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times after failure, want no retries", gen.calls)
	}
}

func TestServiceAskSurfacesSchemaMissing(t *testing.T) {
	gen := &fakeGenerator{responses: []string{`{"query": "SELECT 1"}`}}
	runner := &fakeRunner{err: domain.ErrSchemaMissing}

	svc := NewService(gen, runner, "SGD", logger.NewWithWriter(nil))
	_, err := svc.Ask(context.Background(), "anything")
	if !errors.Is(err, domain.ErrSchemaMissing) {
		t.Fatalf("got %v, want ErrSchemaMissing", err)
	}
}

func TestDedupeSections(t *testing.T) {
	in := []domain.ExplanationSection{
		{Section: "SELECT *", Explanation: "everything"},
		{Section: "LIMIT 20", Explanation: ""},
		{Section: "SELECT *", Explanation: "repeated"},
	}
	out := dedupeSections(in)
	if len(out) != 2 {
		t.Fatalf("got %d sections, want 2", len(out))
	}
	if out[0].Explanation != "everything" {
		t.Errorf("dedupe kept the wrong occurrence: %+v", out[0])
	}
	seen := map[string]bool{}
	for _, s := range out {
		if seen[s.Section] {
			t.Errorf("duplicate section %q survived dedupe", s.Section)
		}
		seen[s.Section] = true
	}
}
