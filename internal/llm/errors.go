package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// Provider errors classify themselves for the retry layer: transient()
// answers whether another attempt can possibly succeed. ErrInvalidResponse
// carries no classification; the retry layer grants it a single reprompt.

// ErrRateLimit reports a 429 from the provider. RetryAfter is the
// provider-requested pause, zero when none was sent.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider rate limit, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("provider rate limit: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error   { return e.Err }
func (e *ErrRateLimit) transient() bool { return true }

// ErrInvalidResponse means the model's output failed schema validation.
// Content holds the offending output for the event log.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("response failed validation: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers 5xx responses and transport failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "provider unavailable"
	}
	return fmt.Sprintf("provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error   { return e.Err }
func (e *ErrProviderUnavailable) transient() bool { return true }

// ErrMaxTokensExceeded means the reply was cut off at the MaxTokens limit.
// Repeating the same request cannot help; the caller must raise the limit
// or shrink the prompt.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "response truncated at the max-token limit"
}

func (e *ErrMaxTokensExceeded) transient() bool { return false }
