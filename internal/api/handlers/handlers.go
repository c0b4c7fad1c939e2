package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-copilot/internal/api/middleware"
	"github.com/dvloznov/finance-copilot/internal/assistant"
	"github.com/dvloznov/finance-copilot/internal/domain"
	"github.com/dvloznov/finance-copilot/internal/insights"
	"github.com/dvloznov/finance-copilot/internal/rag"
)

// InsightsHandler handles the question-to-SQL endpoint.
type InsightsHandler struct {
	service *insights.Service
	log     zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(service *insights.Service, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{service: service, log: log}
}

// Ask handles POST /api/ask
func (h *InsightsHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Input == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Input is required")
		return
	}

	result, err := h.service.Ask(r.Context(), req.Input)
	if err != nil {
		h.log.Error().Err(err).Str("input", req.Input).Msg("Failed to answer question")
		middleware.WriteError(w, statusFor(err), messageFor(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// ChatHandler handles the expense assistant endpoint.
type ChatHandler struct {
	chat *assistant.Chat
	log  zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *assistant.Chat, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	messages, ok := decodeMessages(w, r)
	if !ok {
		return
	}

	converted := make([]assistant.Message, len(messages))
	for i, m := range messages {
		converted[i] = assistant.Message{Role: m.Role, Content: m.Content}
	}

	reply, err := h.chat.Respond(r.Context(), converted)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate chat response")
		middleware.WriteError(w, statusFor(err), messageFor(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// KnowledgeHandler handles the document Q&A endpoint.
type KnowledgeHandler struct {
	responder *rag.Responder
	log       zerolog.Logger
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(responder *rag.Responder, log zerolog.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{responder: responder, log: log}
}

// Chat handles POST /api/knowledge/chat
func (h *KnowledgeHandler) Chat(w http.ResponseWriter, r *http.Request) {
	messages, ok := decodeMessages(w, r)
	if !ok {
		return
	}

	reply, err := h.responder.Respond(r.Context(), messages)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate knowledge response")
		middleware.WriteError(w, statusFor(err), messageFor(err))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// decodeMessages accepts either {"messages": [...]} or a bare {"prompt": "..."}
// which becomes a single user turn.
func decodeMessages(w http.ResponseWriter, r *http.Request) ([]rag.Message, bool) {
	var req struct {
		Messages []rag.Message `json:"messages"`
		Prompt   string        `json:"prompt"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	if len(req.Messages) == 0 && req.Prompt != "" {
		req.Messages = []rag.Message{{Role: "user", Content: req.Prompt}}
	}
	if len(req.Messages) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Messages or prompt is required")
		return nil, false
	}
	return req.Messages, true
}

// statusFor maps domain errors to HTTP status codes. Unsafe queries are
// the caller's fault, everything else is a server-side failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsafeQuery), errors.Is(err, domain.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSchemaMissing):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsafeQuery):
		return "Only read-only SELECT queries are allowed"
	case errors.Is(err, domain.ErrUnknownCategory):
		return "Unknown expense category"
	case errors.Is(err, domain.ErrSchemaMissing):
		return "Database schema is not initialized"
	case errors.Is(err, domain.ErrGeneration):
		return "Failed to generate a response"
	default:
		return "Internal server error"
	}
}
