package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrRequestTimeout is returned when a single model call exceeds the client-side deadline.
	ErrRequestTimeout = errors.New("ai: request timed out")
	// ErrModelNotFound marks a model id the provider does not know.
	ErrModelNotFound = errors.New("ai: model not found")
	// ErrEmptyResponse is returned when the provider answers without any text.
	ErrEmptyResponse = errors.New("ai: empty response")
)

// ProviderError is a classified failure reported by a provider backend.
type ProviderError struct {
	Provider string
	Model    string
	Status   int
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Provider, e.Model, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Model, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool {
	return target == ErrModelNotFound && e.NotFound()
}

func (e *ProviderError) msg() string { return strings.ToLower(e.Message) }

// NotFound reports a 404 or a "not found" message.
func (e *ProviderError) NotFound() bool {
	return e.Status == http.StatusNotFound || strings.Contains(e.msg(), "not found")
}

func (e *ProviderError) RateLimited() bool {
	m := e.msg()
	return e.Status == http.StatusTooManyRequests || strings.Contains(m, "quota") ||
		strings.Contains(m, "rate limit") || strings.Contains(m, "429")
}

func (e *ProviderError) Overloaded() bool {
	m := e.msg()
	return e.Status == http.StatusServiceUnavailable || strings.Contains(m, "overloaded") || strings.Contains(m, "503")
}

// Transient failures are retried with backoff on the same model.
func (e *ProviderError) Transient() bool {
	return e.RateLimited() || e.Overloaded()
}

func (e *ProviderError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden ||
		strings.Contains(e.msg(), "api key")
}

// ModelUnavailableError is returned after every candidate model reported "not found".
type ModelUnavailableError struct {
	Tried []string
	Last  error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("ai: no usable model after trying [%s]: %v", strings.Join(e.Tried, ", "), e.Last)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Last }

func (e *ModelUnavailableError) Is(target error) bool { return target == ErrModelNotFound }

// AsProviderError extracts the classified provider failure from err, if any.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func IsRateLimited(err error) bool {
	pe, ok := AsProviderError(err)
	return ok && pe.RateLimited()
}

func IsOverloaded(err error) bool {
	pe, ok := AsProviderError(err)
	return ok && pe.Overloaded()
}

func IsUnauthorized(err error) bool {
	pe, ok := AsProviderError(err)
	return ok && pe.Unauthorized()
}
