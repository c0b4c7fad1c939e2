package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/dvloznov/finance-copilot/internal/insights"
	"github.com/dvloznov/finance-copilot/internal/logger"
)

// fakeGenerator feeds canned JSON payloads to the pipeline in call order.
type fakeGenerator struct {
	responses []string
	calls     int
}

func (f *fakeGenerator) GenerateObject(ctx context.Context, system, prompt string, schema *genai.Schema, out any) error {
	if f.calls >= len(f.responses) {
		return fmt.Errorf("unexpected generation call %d", f.calls)
	}
	payload := f.responses[f.calls]
	f.calls++
	return json.Unmarshal([]byte(payload), out)
}

type fakeRunner struct {
	rows []map[string]any
}

func (f *fakeRunner) RunSelect(ctx context.Context, query string) ([]map[string]any, error) {
	return f.rows, nil
}

func newAskHandler(gen *fakeGenerator, runner *fakeRunner) *InsightsHandler {
	log := logger.NewWithWriter(nil)
	return NewInsightsHandler(insights.NewService(gen, runner, "SGD", log), log)
}

func TestAskReturnsResult(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"query": "select c.name, sum(e.amount) from \"Expense\" e join \"Category\" c on e.\"categoryId\" = c.id group by c.name"}`,
		`{"explanations": [{"section": "select c.name, sum(e.amount)", "explanation": "Totals per category."}]}`,
		`{"explanation": "You spent the most on food."}`,
	}}
	runner := &fakeRunner{rows: []map[string]any{{"name": "food", "sum": 812.50}}}

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"input": "where does my money go?"}`))
	rec := httptest.NewRecorder()
	newAskHandler(gen, runner).Ask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result insights.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result.Query, "select")
	assert.Len(t, result.Explanations, 1)
	assert.Len(t, result.Rows, 1)
	assert.Equal(t, "You spent the most on food.", result.Summary)
}

func TestAskRejectsEmptyInput(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	newAskHandler(&fakeGenerator{}, &fakeRunner{}).Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	newAskHandler(&fakeGenerator{}, &fakeRunner{}).Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskUnsafeQueryIsBadRequest(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		`{"query": "UPDATE \"Expense\" SET amount = 0"}`,
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"input": "set all my expenses to zero"}`))
	rec := httptest.NewRecorder()
	newAskHandler(gen, &fakeRunner{}).Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "SELECT")
}
