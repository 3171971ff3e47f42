package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"scheme-sahayak/internal/contextutil"
	"scheme-sahayak/internal/llm"
	"scheme-sahayak/internal/rag"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	engine rag.Engine
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine rag.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message  string        `json:"message"`
	History  []llm.Message `json:"conversationHistory"`
	Language string        `json:"language"`
}

// ServeHTTP handles POST /api/chat. Past request validation the
// endpoint always answers 200: internal failures come back as an
// apologetic message body, never as an error status the UI would have
// to special-case.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.engine.Chat(ctx, rag.ChatRequest{
		Message:  req.Message,
		History:  req.History,
		Language: req.Language,
	})
	if err != nil {
		var valErr *rag.ValidationError
		if errors.As(err, &valErr) {
			writeError(ctx, w, http.StatusBadRequest, valErr.Message)
			return
		}

		logger.ErrorContext(ctx, "chat turn failed", "error", err)
		resp = rag.ChatResponse{
			Content:     "I apologize, but I encountered an error. Please try again.",
			SourceLabel: "Error occurred",
		}
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
