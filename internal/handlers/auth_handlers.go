// File: internal/handlers/auth_handlers.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/tafara-ai/tafara/internal/middleware"
	"github.com/tafara-ai/tafara/internal/services/chat"
	"github.com/tafara-ai/tafara/internal/services/user_services"
)

// SharedKeyProvider releases the operator credential to preset accounts.
type SharedKeyProvider interface {
	SharedKeyFor(ctx context.Context, userID uint) (string, error)
}

type AuthHandler struct {
	authService *user_services.AuthService
	sharedKeys  SharedKeyProvider
	environment string
}

func NewAuthHandler(authService *user_services.AuthService, sharedKeys SharedKeyProvider, environment string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sharedKeys:  sharedKeys,
		environment: environment,
	}
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		APIKey   string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Password) < 8 {
		writeError(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	account, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password, req.APIKey)
	if err != nil {
		if errors.Is(err, user_services.ErrUsernameTaken) {
			writeError(w, "Username already taken", http.StatusConflict)
			return
		}
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       account.ID,
		"username": account.Username,
	})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	h.setAuthCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":             token,
		"username":          account.Username,
		"is_preset_account": account.IsPresetAccount,
	})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleProfile returns the caller's account without credential material.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	account, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, "Profile not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":                account.ID,
		"username":          account.Username,
		"email":             account.Email,
		"is_preset_account": account.IsPresetAccount,
		"has_api_key":       account.APIKey != "",
	})
}

func (h *AuthHandler) HandleUpdateAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.authService.UpdateAPIKey(r.Context(), userID, req.APIKey); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "API key updated"})
}

// HandleSharedKey releases the operator credential to preset accounts only.
// Any other caller gets a 403 with no hint of the key's existence.
func (h *AuthHandler) HandleSharedKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	key, err := h.sharedKeys.SharedKeyFor(r.Context(), userID)
	if err != nil {
		if errors.Is(err, chat.ErrNoAPIKey) {
			log.Printf("[AuthHandler] Shared key requested but not configured")
			writeError(w, "Shared key not configured", http.StatusNotFound)
			return
		}
		writeError(w, "Forbidden", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key})
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   h.environment == "production",
		SameSite: http.SameSiteLaxMode,
	})
}
