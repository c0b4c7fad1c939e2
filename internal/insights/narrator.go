package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Narrator converts raw result rows into a plain-language summary grounded
// strictly in the rows: it performs no computation of its own, it only
// restates what the data says.
type Narrator struct {
	gen      Generator
	currency string
	now      func() time.Time
}

func NewNarrator(gen Generator, currency string) *Narrator {
	return &Narrator{gen: gen, currency: currency, now: time.Now}
}

var narrationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"explanation": {Type: genai.TypeString},
	},
	Required: []string{"explanation"},
}

// Narrate serializes the rows losslessly as JSON and asks the model for a
// concise explanation, pinned to a fixed reference date and currency label.
func (n *Narrator) Narrate(ctx context.Context, question, sqlQuery string, rows []map[string]any) (string, error) {
	rowsJSON, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("narrate: serialize rows: %w", err)
	}

	var result struct {
		Explanation string `json:"explanation"`
	}
	err = n.gen.GenerateObject(ctx,
		"",
		narratorPrompt(n.currency, n.now().Format("2006-01-02"), question, sqlQuery, string(rowsJSON)),
		narrationSchema,
		&result,
	)
	if err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}
	return result.Explanation, nil
}
