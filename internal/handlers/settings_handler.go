// File: internal/handlers/settings_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tafara-ai/tafara/internal/middleware"
	"github.com/tafara-ai/tafara/internal/repository/settings"
	"github.com/tafara-ai/tafara/internal/services"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	loaded, err := h.settingsService.Load(r.Context(), username)
	if err != nil {
		writeError(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, loaded)
}

func (h *SettingsHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req settings.AppSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.settingsService.Save(r.Context(), username, &req); err != nil {
		writeError(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "settings saved"})
}
