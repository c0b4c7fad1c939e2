package insights

import (
	"fmt"
	"strings"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// deniedKeywords are rejected anywhere in the statement, as substrings.
// This is a coarse lexical denylist, not a SQL parser: it is deliberately
// simple and known to be bypassable by obfuscation (quoted identifiers,
// comments, string literals containing keywords will also false-positive).
// That trade-off is accepted; the database role should be read-only anyway.
var deniedKeywords = []string{
	"drop", "delete", "insert", "update",
	"alter", "truncate", "create", "grant", "revoke",
}

// GuardQuery validates that the statement is a plain SELECT before it is
// allowed anywhere near the database. It returns domain.ErrUnsafeQuery for
// anything else; a rejected query is terminal for the request.
func GuardQuery(query string) error {
	normalized := strings.ToLower(strings.TrimSpace(query))

	if !strings.HasPrefix(normalized, "select") {
		return fmt.Errorf("guard: statement does not start with SELECT: %w", domain.ErrUnsafeQuery)
	}
	for _, kw := range deniedKeywords {
		if strings.Contains(normalized, kw) {
			return fmt.Errorf("guard: statement contains %q: %w", kw, domain.ErrUnsafeQuery)
		}
	}
	return nil
}
