// Package domain holds the core types shared by the SQL question-answering
// pipeline and the document retrieval pipeline.
package domain

import "time"

// Expense represents one monetary transaction. Positive amounts are money
// going out, negative amounts are money coming in (salary, refunds).
// Expenses are created by seeding or ingestion and never mutated afterwards.
type Expense struct {
	ID         string
	Amount     float64
	Date       time.Time
	CategoryID string
	MerchantID string
	CreatedAt  time.Time
}

// Category is a lookup dimension with a unique name, e.g. "food", "transport".
type Category struct {
	ID   string
	Name string
}

// Merchant is a lookup dimension with a unique name, e.g. "McDonalds".
type Merchant struct {
	ID   string
	Name string
}

// Resource is a source document registered once at ingestion time.
type Resource struct {
	ID   string
	File string
}

// Chunk is a contiguous word-window of one page of a resource's text,
// tagged with the page it was extracted from.
type Chunk struct {
	Content    string
	PageNumber int
}

// EmbeddingRecord is a stored chunk together with its vector representation.
// Vector length is fixed per embedding scheme and uniform across records.
type EmbeddingRecord struct {
	ID         string
	ResourceID string
	Content    string
	PageNumber int
	Vector     []float32
}

// RelevanceResult is one retrieval hit: chunk content plus where it came
// from and how close it is to the query. Similarity is in [0,1].
type RelevanceResult struct {
	Content    string
	Similarity float64
	File       string
	PageNumber int
}

// ExplanationSection pairs one syntactic section of a generated SQL query
// with a plain-language explanation. The explanation may be empty; the
// section string is unique within one explanation sequence.
type ExplanationSection struct {
	Section     string `json:"section"`
	Explanation string `json:"explanation"`
}

// ExpenseSummary is the result of the aggregate-by-category tool. Total is
// a two-decimal string of the signed sum over matching rows. When no rows
// match, Total is "0.00", Count is 0 and TopMerchant is "N/A".
type ExpenseSummary struct {
	Total       string `json:"total"`
	Count       int    `json:"count"`
	TopMerchant string `json:"topMerchant"`
}

// LatestExpense is the result of the latest-by-category tool. Found is
// false when the category holds no expenses at all.
type LatestExpense struct {
	Found    bool   `json:"found"`
	Date     string `json:"date,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Merchant string `json:"merchant,omitempty"`
}
