// Package assistant implements the conversational entry point where the
// model invokes typed data-access functions instead of writing SQL.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/dvloznov/finance-copilot/internal/domain"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
)

// categoryAll is the sentinel category meaning "no category filter".
const categoryAll = "all"

// Tools is the closed set of functions the chat model may dispatch to.
// Both are read-only.
type Tools struct {
	categories postgres.CategoryRepository
	expenses   postgres.ExpenseRepository
}

func NewTools(categories postgres.CategoryRepository, expenses postgres.ExpenseRepository) *Tools {
	return &Tools{categories: categories, expenses: expenses}
}

// Declarations describes the tools to the model. Relative date phrases
// ("last month") must be resolved by the model before calling.
func (t *Tools) Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        "getExpenses",
			Description: "Get a summary of user expenses by category and date range.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"category": {
						Type:        genai.TypeString,
						Description: "Expense category, e.g., food, transport, shopping. Use \"all\" for no filter.",
					},
					"dateRange": {
						Type:        genai.TypeObject,
						Description: `The resolved date range. Convert "last month", "yesterday", "this year" etc. to concrete dates.`,
						Properties: map[string]*genai.Schema{
							"start": {Type: genai.TypeString, Description: "Start date in YYYY-MM-DD format"},
							"end":   {Type: genai.TypeString, Description: "End date in YYYY-MM-DD format"},
						},
						Required: []string{"start", "end"},
					},
				},
				Required: []string{"category", "dateRange"},
			},
		},
		{
			Name:        "getLatestExpense",
			Description: "Get the most recent expense by category.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"category": {
						Type:        genai.TypeString,
						Description: "Expense category, e.g., food, transport. Use \"all\" for no filter.",
					},
				},
				Required: []string{"category"},
			},
		},
	}
}

// CategoryNames lists the known category names, used to ground the system
// prompt so the model picks resolvable categories.
func (t *Tools) CategoryNames(ctx context.Context) ([]string, error) {
	return t.categories.ListNames(ctx)
}

// GetExpenses aggregates matching expenses over the concrete date range.
func (t *Tools) GetExpenses(ctx context.Context, category, start, end string) (*domain.ExpenseSummary, error) {
	categoryID, err := t.resolveCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("GetExpenses: bad start date %q: %w", start, err)
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("GetExpenses: bad end date %q: %w", end, err)
	}

	return t.expenses.AggregateByCategory(ctx, categoryID, startDate, endDate)
}

// GetLatestExpense returns the most recent expense for the category.
func (t *Tools) GetLatestExpense(ctx context.Context, category string) (*domain.LatestExpense, error) {
	categoryID, err := t.resolveCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return t.expenses.LatestByCategory(ctx, categoryID)
}

// resolveCategory maps a category name to its id, with "all" (case
// insensitive) meaning no filter. Unknown names fail typed.
func (t *Tools) resolveCategory(ctx context.Context, category string) (string, error) {
	if strings.EqualFold(category, categoryAll) {
		return "", nil
	}
	cat, err := t.categories.GetByName(ctx, category)
	if err != nil {
		return "", err
	}
	return cat.ID, nil
}
