package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// maxToolRounds bounds the reasoning/tool-call loop: one round to gather
// data, one to answer.
const maxToolRounds = 2

// ToolCaller is the generation capability with function declarations
// attached; one call is one model turn over the accumulated history.
type ToolCaller interface {
	GenerateWithTools(ctx context.Context, system string, history []*genai.Content, tools []*genai.FunctionDeclaration) (*genai.Content, error)
}

// Message is one turn of the incoming conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat drives the bounded tool-call loop for one conversation request.
type Chat struct {
	llm   ToolCaller
	tools *Tools
	log   zerolog.Logger
	now   func() time.Time
}

func NewChat(llm ToolCaller, tools *Tools, log zerolog.Logger) *Chat {
	return &Chat{llm: llm, tools: tools, log: log, now: time.Now}
}

// systemPrompt pins today's date and, when available, the known category
// names. A failed lookup degrades to the bare prompt; the model can still
// guess a category and get ErrUnknownCategory back.
func (c *Chat) systemPrompt(ctx context.Context) string {
	prompt := fmt.Sprintf("You are a helpful assistant. You are going to help me with my expenses. Kindly note, that today's date is %s.",
		c.now().Format("2006-01-02"))

	names, err := c.tools.CategoryNames(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("category names unavailable")
		return prompt
	}
	if len(names) == 0 {
		return prompt
	}
	return prompt + " Known expense categories: " + strings.Join(names, ", ") + "."
}

// Respond runs the conversation until the model answers without further
// tool calls or the round budget runs out. Tool invocations within a turn
// execute sequentially.
func (c *Chat) Respond(ctx context.Context, messages []Message) (string, error) {
	history := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.RoleUser
		if m.Role == "assistant" || m.Role == string(genai.RoleModel) {
			role = genai.RoleModel
		}
		history = append(history, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}

	system := c.systemPrompt(ctx)
	for round := 0; round < maxToolRounds; round++ {
		content, err := c.llm.GenerateWithTools(ctx, system, history, c.tools.Declarations())
		if err != nil {
			return "", fmt.Errorf("Respond: %w", err)
		}

		calls := functionCalls(content)
		if len(calls) == 0 {
			return textOf(content), nil
		}

		history = append(history, content)
		var responseParts []*genai.Part
		for _, call := range calls {
			c.log.Debug().Str("tool", call.Name).Interface("args", call.Args).Msg("tool call")
			result, err := c.dispatch(ctx, call)
			if err != nil {
				return "", fmt.Errorf("Respond: tool %s: %w", call.Name, err)
			}
			responseParts = append(responseParts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{Name: call.Name, Response: result},
			})
		}
		history = append(history, &genai.Content{Role: genai.RoleUser, Parts: responseParts})
	}

	return "", fmt.Errorf("Respond: tool round budget exhausted: %w", domain.ErrGeneration)
}

// dispatch routes a function call by name to the matching typed tool.
func (c *Chat) dispatch(ctx context.Context, call *genai.FunctionCall) (map[string]any, error) {
	switch call.Name {
	case "getExpenses":
		var args struct {
			Category  string `json:"category"`
			DateRange struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"dateRange"`
		}
		if err := decodeArgs(call.Args, &args); err != nil {
			return nil, err
		}
		summary, err := c.tools.GetExpenses(ctx, args.Category, args.DateRange.Start, args.DateRange.End)
		if err != nil {
			return nil, err
		}
		return toResponse(summary)

	case "getLatestExpense":
		var args struct {
			Category string `json:"category"`
		}
		if err := decodeArgs(call.Args, &args); err != nil {
			return nil, err
		}
		latest, err := c.tools.GetLatestExpense(ctx, args.Category)
		if err != nil {
			return nil, err
		}
		return toResponse(latest)

	default:
		return nil, fmt.Errorf("dispatch: unknown tool %q", call.Name)
	}
}

func decodeArgs(args map[string]any, out any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("decodeArgs: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decodeArgs: %w", err)
	}
	return nil
}

func toResponse(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("toResponse: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("toResponse: %w", err)
	}
	return out, nil
}

func functionCalls(content *genai.Content) []*genai.FunctionCall {
	var calls []*genai.FunctionCall
	for _, part := range content.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

func textOf(content *genai.Content) string {
	var text string
	for _, part := range content.Parts {
		text += part.Text
	}
	return text
}
