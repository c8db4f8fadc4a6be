package llm

import (
	"errors"
	"fmt"
)

// ErrNoToolCall is returned when ToolChoiceRequired was set but the model answered without calling a tool.
var ErrNoToolCall = errors.New("model returned no tool call")

// ErrUnknownContinuation is returned when the backend no longer holds the turn a token references.
var ErrUnknownContinuation = errors.New("unknown continuation token")

// HTTPError is a non-2xx answer from a provider endpoint.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s error: status %d, body: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether the status is one a caller may retry (rate limits and server errors).
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
