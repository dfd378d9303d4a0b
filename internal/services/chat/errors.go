// File: internal/services/chat/errors.go
package chat

import "errors"

// Error taxonomy for the chat proxy. Unauthorized maps to 401, a missing
// credential maps to 400, upstream failures keep the gateway's status.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoAPIKey     = errors.New("no API key found")
)
