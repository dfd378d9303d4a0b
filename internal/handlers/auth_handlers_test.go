// File: internal/handlers/auth_handlers_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tafara-ai/tafara/internal/middleware"
	"github.com/tafara-ai/tafara/internal/services/chat"
)

type stubSharedKeys struct {
	key string
	err error
}

func (s *stubSharedKeys) SharedKeyFor(_ context.Context, _ uint) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.key, nil
}

func getSharedKey(t *testing.T, handler *AuthHandler, userID uint) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/shared-key", nil)
	if userID != 0 {
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	handler.HandleSharedKey(rec, req)
	return rec
}

func TestHandleSharedKey_PresetAccount(t *testing.T) {
	handler := NewAuthHandler(nil, &stubSharedKeys{key: "sk-or-shared-operator-key"}, "test")

	rec := getSharedKey(t, handler, 1)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sk-or-shared-operator-key", resp["key"])
}

func TestHandleSharedKey_NonPresetForbidden(t *testing.T) {
	handler := NewAuthHandler(nil, &stubSharedKeys{err: chat.ErrUnauthorized}, "test")

	rec := getSharedKey(t, handler, 2)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sk-or-")
}

func TestHandleSharedKey_NotConfigured(t *testing.T) {
	handler := NewAuthHandler(nil, &stubSharedKeys{err: chat.ErrNoAPIKey}, "test")

	rec := getSharedKey(t, handler, 1)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSharedKey_NoSession(t *testing.T) {
	handler := NewAuthHandler(nil, &stubSharedKeys{key: "sk-or-shared-operator-key"}, "test")

	rec := getSharedKey(t, handler, 0)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sk-or-")
}
