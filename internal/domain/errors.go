package domain

import "errors"

// Error kinds surfaced by the two pipelines. Callers match them with
// errors.Is; lower layers wrap them with fmt.Errorf("...: %w", ...).
var (
	// ErrGeneration means a model call failed or returned output that did
	// not conform to the requested structure. Never retried internally.
	ErrGeneration = errors.New("model generation failed")

	// ErrUnsafeQuery means the query guard rejected a statement that was
	// not a plain SELECT or contained a denylisted keyword.
	ErrUnsafeQuery = errors.New("only SELECT queries are allowed")

	// ErrSchemaMissing means the store reported that an expected table
	// does not exist, typically before first migration/seeding.
	ErrSchemaMissing = errors.New("table does not exist")

	// ErrExecution covers any other query execution failure.
	ErrExecution = errors.New("query execution failed")

	// ErrUnknownCategory means a tool call referenced a category name that
	// does not resolve to an existing row (and was not the "all" sentinel).
	ErrUnknownCategory = errors.New("unknown category")

	// ErrEmbedding means the embedding call failed or returned an empty
	// vector.
	ErrEmbedding = errors.New("embedding failed")
)
