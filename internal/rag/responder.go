package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// RefusalPhrase is the fixed reply when retrieval yields nothing relevant.
const RefusalPhrase = "I find your question, disturbing."

// noContentMessage is what the tool reports back to the model when no
// chunk clears the similarity floor.
const noContentMessage = "No relevant content found."

// responderRounds bounds the retrieve/answer loop.
const responderRounds = 2

const responderSystemPrompt = `You are a helpful assistant. You must only respond to questions using the knowledge provided from tool calls. If relevant information is returned, use it to answer the user's question as best as you can and provide additional context as well to the user. Always point to the page numbers where this information can be found in which document. If no relevant information is returned, respond: "` + RefusalPhrase + `"`

// ToolCaller is one model turn with tool declarations attached.
type ToolCaller interface {
	GenerateWithTools(ctx context.Context, system string, history []*genai.Content, tools []*genai.FunctionDeclaration) (*genai.Content, error)
}

// Message is one turn of the incoming conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Responder answers questions strictly from retrieved document chunks,
// citing document and page. It exposes exactly one tool to the model.
type Responder struct {
	llm       ToolCaller
	retriever *Retriever
	log       zerolog.Logger
}

func NewResponder(llm ToolCaller, retriever *Retriever, log zerolog.Logger) *Responder {
	return &Responder{llm: llm, retriever: retriever, log: log}
}

func (r *Responder) declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{{
		Name:        "getInformation",
		Description: "get information from your knowledge base to answer questions.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {Type: genai.TypeString, Description: "the users question"},
			},
			Required: []string{"question"},
		},
	}}
}

// Respond drives the grounded conversation: the model asks the knowledge
// base through the tool, then answers only from what came back.
func (r *Responder) Respond(ctx context.Context, messages []Message) (string, error) {
	history := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.RoleUser
		if m.Role == "assistant" || m.Role == string(genai.RoleModel) {
			role = genai.RoleModel
		}
		history = append(history, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}

	for round := 0; round < responderRounds; round++ {
		content, err := r.llm.GenerateWithTools(ctx, responderSystemPrompt, history, r.declarations())
		if err != nil {
			return "", fmt.Errorf("Respond: %w", err)
		}

		var calls []*genai.FunctionCall
		var text string
		for _, part := range content.Parts {
			if part.FunctionCall != nil {
				calls = append(calls, part.FunctionCall)
			}
			text += part.Text
		}
		if len(calls) == 0 {
			return text, nil
		}

		history = append(history, content)
		var responseParts []*genai.Part
		for _, call := range calls {
			question, _ := call.Args["question"].(string)
			r.log.Debug().Str("question", question).Msg("knowledge base lookup")
			responseParts = append(responseParts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     call.Name,
					Response: map[string]any{"content": r.lookup(ctx, question)},
				},
			})
		}
		history = append(history, &genai.Content{Role: genai.RoleUser, Parts: responseParts})
	}

	return "", fmt.Errorf("Respond: tool round budget exhausted: %w", domain.ErrGeneration)
}

// lookup formats retrieval results for the model, including similarity
// and citation metadata per chunk.
func (r *Responder) lookup(ctx context.Context, question string) string {
	results := r.retriever.FindRelevant(ctx, question)
	if len(results) == 0 {
		return noContentMessage
	}

	var sb strings.Builder
	sb.WriteString("I found the following relevant information in your knowledge base:\n\n")
	for _, res := range results {
		fmt.Fprintf(&sb, "- %s (similarity: %.2f)\n  → Document: %s, Page: %d\n",
			strings.TrimSpace(res.Content), res.Similarity, res.File, res.PageNumber)
	}
	return sb.String()
}
