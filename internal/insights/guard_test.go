package insights

import (
	"errors"
	"testing"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

func TestGuardQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{
			name:    "plain select",
			query:   `SELECT * FROM "Expense" LIMIT 20`,
			wantErr: false,
		},
		{
			name:    "select with joins and aggregation",
			query:   `SELECT c.name, SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END) FROM "Expense" e JOIN "Category" c ON e."categoryId" = c.id GROUP BY c.name`,
			wantErr: false,
		},
		{
			name:    "leading whitespace and mixed case",
			query:   "  \n\tSeLeCt 1",
			wantErr: false,
		},
		{
			name:    "update statement",
			query:   `UPDATE expense SET amount = 0`,
			wantErr: true,
		},
		{
			name:    "delete statement",
			query:   `DELETE FROM "Expense"`,
			wantErr: true,
		},
		{
			name:    "select hiding a drop",
			query:   `SELECT 1; DROP TABLE "Expense"`,
			wantErr: true,
		},
		{
			name:    "denylisted keyword embedded as substring",
			query:   `SELECT * FROM created_things`,
			wantErr: true,
		},
		{
			name:    "truncate",
			query:   `TRUNCATE "Expense"`,
			wantErr: true,
		},
		{
			name:    "grant",
			query:   `GRANT ALL ON "Expense" TO public`,
			wantErr: true,
		},
		{
			name:    "empty string",
			query:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GuardQuery(tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("GuardQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrUnsafeQuery) {
				t.Errorf("GuardQuery(%q) error = %v, want ErrUnsafeQuery", tt.query, err)
			}
		})
	}
}

func TestGuardQueryAllDenylistedKeywords(t *testing.T) {
	for _, kw := range deniedKeywords {
		query := "select * from t where c = '" + kw + "'"
		if err := GuardQuery(query); !errors.Is(err, domain.ErrUnsafeQuery) {
			t.Errorf("GuardQuery with %q in statement: got %v, want ErrUnsafeQuery", kw, err)
		}
	}
}
