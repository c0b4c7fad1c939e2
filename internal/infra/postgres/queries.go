package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// undefinedTable is the SQLSTATE Postgres reports when a relation in the
// query does not exist.
const undefinedTable = "42P01"

// Runner implements QueryRunner over raw, already-guarded SQL.
type Runner struct {
	pool *pgxpool.Pool
}

func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

// RunSelect executes the statement verbatim and returns the rows as
// column-name → value maps. A missing relation surfaces as
// domain.ErrSchemaMissing so callers can tell "not seeded yet" apart from
// an ordinary execution failure.
func (r *Runner) RunSelect(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, classify(err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("RunSelect: %w: %s", domain.ErrSchemaMissing, pgErr.Message)
	}
	return fmt.Errorf("RunSelect: %w: %v", domain.ErrExecution, err)
}
