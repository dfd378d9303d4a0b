// File: internal/handlers/history_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tafara-ai/tafara/internal/dtos"
	"github.com/tafara-ai/tafara/internal/middleware"
	"github.com/tafara-ai/tafara/internal/services"
)

type HistoryHandler struct {
	historyService *services.HistoryService
}

func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// HandleGetTranscript returns the retained turns for one conversation,
// oldest first, with Markdown pre-rendered for display.
func (h *HistoryHandler) HandleGetTranscript(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	aiID := mux.Vars(r)["aiId"]

	messages, err := h.historyService.LoadTranscript(r.Context(), userID, aiID)
	if err != nil {
		writeError(w, "Failed to load conversation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": toMessageDTOs(messages),
	})
}

// HandleSaveTurn appends one turn. The retention cap is applied after the
// insert, so a burst of writes can briefly overshoot before settling.
func (h *HistoryHandler) HandleSaveTurn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	aiID := mux.Vars(r)["aiId"]

	var req dtos.SaveTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	saved, err := h.historyService.SaveTurn(r.Context(), userID, aiID, req.Role, req.Content)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": saved.ID})
}

// HandleClear drops the whole conversation for the caller and persona.
func (h *HistoryHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	aiID := mux.Vars(r)["aiId"]

	if err := h.historyService.ClearConversation(r.Context(), userID, aiID); err != nil {
		writeError(w, "Failed to clear conversation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "conversation cleared"})
}
