// File: internal/handlers/chat_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/dtos"
	"github.com/tafara-ai/tafara/internal/services/ai"
	"github.com/tafara-ai/tafara/internal/services/chat"
)

// ChatCompleter is the proxy surface the handler needs.
type ChatCompleter interface {
	Complete(ctx context.Context, sessionToken string, config domain.PersonaConfig, transcript []ai.Turn) (string, error)
}

type ChatHandler struct {
	chatService ChatCompleter
}

func NewChatHandler(chatService ChatCompleter) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// HandleCompletion proxies one conversation exchange to the LLM gateway.
// The session token travels in the body, so this route stays outside the
// cookie middleware. Authentication is checked before the request body is
// inspected any further.
func (h *ChatHandler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	var req dtos.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	content, err := h.chatService.Complete(r.Context(), req.SessionToken, req.Config, req.Messages)
	if err != nil {
		h.writeCompletionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.ChatResponse{Content: content})
}

// writeCompletionError maps proxy failures onto the wire contract. Upstream
// gateway statuses pass through unchanged so the client can distinguish a
// bad key (401) from a rate limit (429) or provider outage. Non-auth errors
// also carry a ready-made assistant turn the client can show in place of the
// reply.
func (h *ChatHandler) writeCompletionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrUnauthorized):
		writeError(w, "Invalid session", http.StatusUnauthorized)
	case errors.Is(err, chat.ErrNoAPIKey):
		writeErrorTurn(w, "No API key found", http.StatusBadRequest)
	default:
		var aiErr *ai.AIError
		if errors.As(err, &aiErr) && aiErr.Code > 0 {
			writeErrorTurn(w, aiErr.Message, aiErr.Code)
			return
		}
		log.Printf("[ChatHandler] Completion failed: %v", err)
		writeErrorTurn(w, "Chat completion failed", http.StatusInternalServerError)
	}
}

func writeErrorTurn(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{
		"error":   message,
		"content": "Sorry, there was an error: " + message,
	})
}
