// Package seed generates synthetic expense data with realistic patterns:
// monthly recurring bills, weekly groceries, high-frequency food and
// transport spending, and an irregular remainder. Generation is driven by
// an explicit seedable random source so runs are reproducible.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/finance-copilot/internal/domain"
	"github.com/dvloznov/finance-copilot/internal/infra/postgres"
)

// Categories and merchants seeded as lookup dimensions.
var Categories = []string{
	"food", "groceries", "transport", "shopping", "fashion", "electronics",
	"travel", "accommodation", "entertainment", "streaming", "gaming",
	"utilities", "internet", "phone", "rent", "salary", "freelance",
	"investment", "education", "books", "health", "pharmacy", "gym",
	"gifts", "charity", "insurance", "car", "fuel", "miscellaneous",
	"pets", "dining out", "coffee", "takeaway",
}

var Merchants = []string{
	"McDonalds", "KFC", "Subway", "Starbucks", "Coffee Bean", "Toast Box",
	"Local Hawker Stall", "Food Court", "Foodpanda", "Deliveroo", "GrabFood",
	"Grab Transport", "ComfortDelGro", "SMRT", "EZ-Link Topup", "Bus Ride",
	"Shopee", "Lazada", "Amazon", "Carousell",
	"FairPrice", "Sheng Siong", "Giant", "Cold Storage", "Redmart",
	"IKEA", "Uniqlo", "H&M", "Nike", "Decathlon",
	"Klook", "Agoda", "Singapore Airlines", "Scoot",
	"Netflix", "Disney+", "Spotify", "Steam",
	"Singtel", "StarHub", "M1", "Circles.Life",
	"SP Services", "HDB", "Condo Mgmt",
	"DBS", "OCBC", "UOB",
	"Coursera", "Udemy",
	"Guardian Pharmacy", "Watsons", "Raffles Medical", "Local Clinic",
	"Golden Village", "Gardens by the Bay",
	"AXA Insurance", "Prudential",
}

var foodMerchants = []string{
	"McDonalds", "KFC", "Subway", "Starbucks", "Coffee Bean", "Toast Box",
	"Local Hawker Stall", "Food Court", "Foodpanda", "Deliveroo", "GrabFood",
}

var foodCategories = []string{"food", "dining out", "coffee", "takeaway"}

var transportMerchants = []string{
	"Grab Transport", "ComfortDelGro", "SMRT", "EZ-Link Topup", "Bus Ride",
}

var groceryMerchants = []string{
	"FairPrice", "Sheng Siong", "Giant", "Cold Storage", "Redmart",
}

// Seeder generates and stores synthetic data.
type Seeder struct {
	categories postgres.CategoryRepository
	merchants  postgres.MerchantRepository
	expenses   postgres.ExpenseRepository
	rng        *rand.Rand
	log        zerolog.Logger
}

func NewSeeder(
	categories postgres.CategoryRepository,
	merchants postgres.MerchantRepository,
	expenses postgres.ExpenseRepository,
	randomSeed int64,
	log zerolog.Logger,
) *Seeder {
	return &Seeder{
		categories: categories,
		merchants:  merchants,
		expenses:   expenses,
		rng:        rand.New(rand.NewSource(randomSeed)),
		log:        log,
	}
}

// Run seeds dimensions and expenses. Dimension inserts are keyed by
// unique name and order-independent, so the two dimensions fire in
// parallel; expense generation waits for both id maps.
func (s *Seeder) Run(ctx context.Context, start, end time.Time, totalExpenses int) error {
	var categoryIDs, merchantIDs map[string]string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.categories.CreateMany(gctx, Categories)
		if err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		categoryIDs = ids
		return nil
	})
	g.Go(func() error {
		ids, err := s.merchants.CreateMany(gctx, Merchants)
		if err != nil {
			return fmt.Errorf("seed merchants: %w", err)
		}
		merchantIDs = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Info().Int("categories", len(categoryIDs)).Int("merchants", len(merchantIDs)).Msg("dimensions seeded")

	expenses := s.Generate(start, end, totalExpenses, categoryIDs, merchantIDs)
	if err := s.expenses.InsertBatch(ctx, expenses); err != nil {
		return fmt.Errorf("seed expenses: %w", err)
	}
	s.log.Info().Int("expenses", len(expenses)).Msg("expenses seeded")
	return nil
}

// Generate produces the synthetic expenses without touching storage.
func (s *Seeder) Generate(start, end time.Time, total int, categoryIDs, merchantIDs map[string]string) []domain.Expense {
	var out []domain.Expense

	add := func(amount float64, date time.Time, category, merchant string) {
		out = append(out, domain.Expense{
			ID:         uuid.NewString(),
			Amount:     round2(amount),
			Date:       date,
			CategoryID: categoryIDs[category],
			MerchantID: merchantIDs[merchant],
			CreatedAt:  date,
		})
	}

	// Layer 1: monthly recurring.
	for month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !month.After(end); month = month.AddDate(0, 1, 0) {
		add(s.between(2200, 3500), s.dayInMonth(month, 1), "rent", s.pick([]string{"HDB", "Condo Mgmt"}))
		add(-s.between(4000, 7000), s.dayInMonth(month, 28), "salary", s.pick([]string{"DBS", "OCBC", "UOB"}))
		add(17.98, s.dayInMonth(month, 15), "streaming", "Netflix")
		add(11.98, s.dayInMonth(month, 18), "streaming", "Spotify")
		add(s.between(70, 180), s.dayInMonth(month, 22), "utilities", "SP Services")
		add(s.between(40, 90), s.dayInMonth(month, 20), "phone", s.pick([]string{"Singtel", "StarHub", "M1", "Circles.Life"}))
	}

	// Layer 2: weekly groceries, biased towards Saturdays.
	for week := start; !week.After(end); week = week.AddDate(0, 0, 7) {
		day := week.AddDate(0, 0, s.intBetween(4, 6))
		if day.After(end) {
			day = end
		}
		add(s.between(80, 160), day, "groceries", s.pick(groceryMerchants))
	}

	// Layers 3 and 4: high-frequency food/transport plus the irregular
	// remainder, filling up to the target count.
	remaining := total - len(out)
	if remaining < 0 {
		remaining = 0
	}
	foodSlots := remaining * 55 / 100
	transportSlots := remaining * 25 / 100
	totalDays := int(end.Sub(start).Hours()/24) + 1

	randomDay := func() time.Time {
		return end.AddDate(0, 0, -s.intBetween(0, totalDays-1))
	}

	for i := 0; i < foodSlots; i++ {
		add(s.between(5, 45), randomDay(), s.pick(foodCategories), s.pick(foodMerchants))
	}
	for i := 0; i < transportSlots; i++ {
		add(s.between(1.5, 25), randomDay(), "transport", s.pick(transportMerchants))
	}
	for len(out) < total {
		category := s.pick([]string{"shopping", "fashion", "electronics", "travel", "entertainment", "gaming", "health", "gifts", "insurance", "miscellaneous", "pets", "books"})
		merchant := s.pick([]string{"Shopee", "Lazada", "Amazon", "IKEA", "Uniqlo", "Nike", "Klook", "Agoda", "Steam", "Watsons", "Raffles Medical", "Golden Village", "AXA Insurance", "Coursera"})
		add(s.irregularAmount(category), randomDay(), category, merchant)
	}

	return out
}

func (s *Seeder) irregularAmount(category string) float64 {
	switch category {
	case "travel", "electronics", "accommodation", "car":
		return s.between(100, 800)
	case "shopping", "fashion", "gifts", "entertainment", "gaming", "books", "insurance":
		return s.between(30, 250)
	case "health", "pharmacy", "gym", "pets":
		return s.between(20, 150)
	default:
		return s.between(10, 100)
	}
}

// dayInMonth returns the target day of the month with a ±3 day jitter,
// clamped inside the month.
func (s *Seeder) dayInMonth(month time.Time, targetDay int) time.Time {
	daysInMonth := month.AddDate(0, 1, -1).Day()
	day := targetDay + s.intBetween(-3, 3)
	if day < 1 {
		day = 1
	}
	if day > daysInMonth {
		day = daysInMonth
	}
	return time.Date(month.Year(), month.Month(), day, 12, 0, 0, 0, time.UTC)
}

func (s *Seeder) between(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

func (s *Seeder) intBetween(min, max int) int {
	if max < min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

func (s *Seeder) pick(options []string) string {
	return options[s.rng.Intn(len(options))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
