// File: internal/handlers/persona_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/dtos"
	"github.com/tafara-ai/tafara/internal/middleware"
	"github.com/tafara-ai/tafara/internal/repository/persona"
	"github.com/tafara-ai/tafara/internal/services"
)

type PersonaHandler struct {
	personaService *services.PersonaService
}

func NewPersonaHandler(personaService *services.PersonaService) *PersonaHandler {
	return &PersonaHandler{personaService: personaService}
}

// HandleListMine returns the caller's private personas.
func (h *PersonaHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	personas, err := h.personaService.ListMine(r.Context(), username)
	if err != nil {
		writeError(w, "Failed to load personas", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"personas": personas})
}

// HandleSaveMine appends one persona to the caller's private list.
func (h *PersonaHandler) HandleSaveMine(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var config domain.PersonaConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.personaService.SaveMine(r.Context(), username, config)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// HandleReplaceMine overwrites the caller's whole private list. Last write
// wins, matching the cache semantics clients expect.
func (h *PersonaHandler) HandleReplaceMine(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Personas []domain.PersonaConfig `json:"personas"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.personaService.ReplaceMine(r.Context(), username, req.Personas); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "personas saved"})
}

// HandleDeleteMine removes one private persona by list index.
func (h *PersonaHandler) HandleDeleteMine(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 {
		writeError(w, "Invalid persona index", http.StatusBadRequest)
		return
	}

	if err := h.personaService.DeleteMine(r.Context(), username, index); err != nil {
		if errors.Is(err, persona.ErrPersonaNotFound) {
			writeError(w, "Persona not found", http.StatusNotFound)
			return
		}
		writeError(w, "Failed to delete persona", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "persona deleted"})
}

// HandlePublish copies a private persona into the shared catalog.
func (h *PersonaHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	published, err := h.personaService.Publish(r.Context(), username, req.Index, req.Category, req.IsAnonymous)
	if err != nil {
		if errors.Is(err, persona.ErrPersonaNotFound) {
			writeError(w, "Persona not found", http.StatusNotFound)
			return
		}
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, published)
}

// HandleUnpublish removes one of the caller's own catalog entries.
func (h *PersonaHandler) HandleUnpublish(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.personaService.Unpublish(r.Context(), username, id); err != nil {
		if errors.Is(err, persona.ErrUnauthorizedPersonaAccess) {
			writeError(w, "Persona not found or not yours", http.StatusNotFound)
			return
		}
		writeError(w, "Failed to unpublish persona", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "persona unpublished"})
}

// HandleListPublic lists the shared catalog. Supports q and category query
// filters; unauthenticated browsing is allowed.
func (h *PersonaHandler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	personas, err := h.personaService.ListPublic(r.Context(), category, search, limit)
	if err != nil {
		writeError(w, "Failed to load personas", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"personas": personas})
}

// HandleResolve loads a persona by identifier through both tiers. A miss in
// both is reported as 404 so the client can fall back to the catalog page.
func (h *PersonaHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	username, _ := middleware.UsernameFrom(r.Context())
	id := mux.Vars(r)["id"]

	resolved, err := h.personaService.Resolve(r.Context(), username, id)
	if err != nil {
		if errors.Is(err, persona.ErrPersonaNotFound) {
			writeError(w, "Persona not found", http.StatusNotFound)
			return
		}
		writeError(w, "Failed to load persona", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resolved)
}
