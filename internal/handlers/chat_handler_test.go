// File: internal/handlers/chat_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/services/ai"
	"github.com/tafara-ai/tafara/internal/services/chat"
)

type stubCompleter struct {
	reply string
	err   error

	calls    int
	gotToken string
}

func (s *stubCompleter) Complete(_ context.Context, sessionToken string, _ domain.PersonaConfig, _ []ai.Turn) (string, error) {
	s.calls++
	s.gotToken = sessionToken
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func postChat(t *testing.T, handler *ChatHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler.HandleCompletion(rec, req)
	return rec
}

func TestHandleCompletion_Success(t *testing.T) {
	stub := &stubCompleter{reply: "Hello there!"}
	handler := NewChatHandler(stub)

	rec := postChat(t, handler, map[string]interface{}{
		"messages":     []map[string]string{{"role": "user", "content": "hi"}},
		"config":       map[string]string{"name": "Muse", "model": "openai/gpt-4o-mini"},
		"sessionToken": "valid-token",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello there!", resp["content"])
	assert.Equal(t, "valid-token", stub.gotToken)
}

func TestHandleCompletion_Unauthorized(t *testing.T) {
	handler := NewChatHandler(&stubCompleter{err: chat.ErrUnauthorized})

	rec := postChat(t, handler, map[string]interface{}{
		"messages":     []map[string]string{{"role": "user", "content": "hi"}},
		"sessionToken": "",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCompletion_NoAPIKey(t *testing.T) {
	handler := NewChatHandler(&stubCompleter{err: chat.ErrNoAPIKey})

	rec := postChat(t, handler, map[string]interface{}{
		"sessionToken": "valid-token",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No API key found", resp["error"])
	assert.Equal(t, "Sorry, there was an error: No API key found", resp["content"])
}

func TestHandleCompletion_UpstreamStatusPassesThrough(t *testing.T) {
	handler := NewChatHandler(&stubCompleter{
		err: ai.NewUpstreamError("chat_completion", http.StatusTooManyRequests, "rate limited"),
	})

	rec := postChat(t, handler, map[string]interface{}{"sessionToken": "valid-token"})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rate limited", resp["error"])
}

func TestHandleCompletion_OpaqueFailure(t *testing.T) {
	handler := NewChatHandler(&stubCompleter{
		err: ai.NewNetworkError("chat_completion", "connection refused", nil),
	})

	rec := postChat(t, handler, map[string]interface{}{"sessionToken": "valid-token"})

	// Network errors carry no upstream status and become a plain 500.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCompletion_MalformedBody(t *testing.T) {
	stub := &stubCompleter{reply: "never"}
	handler := NewChatHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.HandleCompletion(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.calls)
}
