package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// ExpenseRepo implements ExpenseRepository.
type ExpenseRepo struct {
	pool *pgxpool.Pool
}

func NewExpenseRepo(pool *pgxpool.Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

// InsertBatch writes expenses in one transaction.
func (r *ExpenseRepo) InsertBatch(ctx context.Context, expenses []domain.Expense) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("InsertBatch: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range expenses {
		_, err := tx.Exec(ctx, `
			INSERT INTO "Expense" (id, amount, date, "categoryId", "merchantId", "createdAt")
			VALUES ($1, $2, $3, $4, $5, $6)
		`, e.ID, e.Amount, e.Date, e.CategoryID, e.MerchantID, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("InsertBatch: insert expense %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("InsertBatch: commit: %w", err)
	}
	return nil
}

// AggregateByCategory fetches the matching rows and reduces them: signed
// total, row count and the merchant seen most often. Ties on merchant
// frequency are broken by first-encountered order. No matching rows is a
// zero result, not an error.
func (r *ExpenseRepo) AggregateByCategory(ctx context.Context, categoryID string, start, end time.Time) (*domain.ExpenseSummary, error) {
	query := `
		SELECT e.amount, m.name
		FROM "Expense" e
		JOIN "Merchant" m ON e."merchantId" = m.id
		WHERE e.date >= $1 AND e.date <= $2
	`
	args := []any{start, end}
	if categoryID != "" {
		query += ` AND e."categoryId" = $3`
		args = append(args, categoryID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("AggregateByCategory: %w", err)
	}
	defer rows.Close()

	var fetched []expenseRow
	for rows.Next() {
		var row expenseRow
		if err := rows.Scan(&row.Amount, &row.Merchant); err != nil {
			return nil, fmt.Errorf("AggregateByCategory: scan: %w", err)
		}
		fetched = append(fetched, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("AggregateByCategory: rows: %w", err)
	}

	return summarizeExpenses(fetched), nil
}

// expenseRow is one fetched (amount, merchant) pair to be reduced.
type expenseRow struct {
	Amount   float64
	Merchant string
}

// summarizeExpenses reduces the fetched rows: signed decimal total, row
// count and the merchant seen most often, ties broken by first-encountered
// order. No rows yields the zero placeholder.
func summarizeExpenses(rows []expenseRow) *domain.ExpenseSummary {
	if len(rows) == 0 {
		return &domain.ExpenseSummary{Total: "0.00", Count: 0, TopMerchant: "N/A"}
	}

	total := decimal.Zero
	merchantCounts := make(map[string]int)
	var merchantOrder []string

	for _, row := range rows {
		total = total.Add(decimal.NewFromFloat(row.Amount))
		if _, seen := merchantCounts[row.Merchant]; !seen {
			merchantOrder = append(merchantOrder, row.Merchant)
		}
		merchantCounts[row.Merchant]++
	}

	top := merchantOrder[0]
	for _, name := range merchantOrder {
		if merchantCounts[name] > merchantCounts[top] {
			top = name
		}
	}

	return &domain.ExpenseSummary{
		Total:       total.StringFixed(2),
		Count:       len(rows),
		TopMerchant: top,
	}
}

// LatestByCategory returns the most recent expense by occurrence date.
func (r *ExpenseRepo) LatestByCategory(ctx context.Context, categoryID string) (*domain.LatestExpense, error) {
	query := `
		SELECT e.date, e.amount, m.name
		FROM "Expense" e
		JOIN "Merchant" m ON e."merchantId" = m.id
	`
	var args []any
	if categoryID != "" {
		query += ` WHERE e."categoryId" = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY e.date DESC LIMIT 1`

	var (
		date     time.Time
		amount   float64
		merchant string
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(&date, &amount, &merchant)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.LatestExpense{Found: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LatestByCategory: %w", err)
	}

	return latestExpense(date, amount, merchant), nil
}

// latestExpense formats one fetched row as the tool result.
func latestExpense(date time.Time, amount float64, merchant string) *domain.LatestExpense {
	return &domain.LatestExpense{
		Found:    true,
		Date:     date.Format(time.RFC3339),
		Amount:   decimal.NewFromFloat(amount).StringFixed(2),
		Merchant: merchant,
	}
}
