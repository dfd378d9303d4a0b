// File: internal/services/ai/errors.go
package ai

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeUpstream   ErrorType = "UPSTREAM"
	ErrTypeValidation ErrorType = "VALIDATION"
)

// AIError is the caller-visible form of an upstream failure. Code carries the
// gateway's HTTP status for pass-through; the credential never appears in
// Message or Cause.
type AIError struct {
	Type      ErrorType
	Code      int
	Message   string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewNetworkError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeNetwork, Operation: operation, Message: msg, Cause: cause}
}

func NewUpstreamError(operation string, status int, msg string) *AIError {
	return &AIError{Type: ErrTypeUpstream, Operation: operation, Code: status, Message: msg}
}
