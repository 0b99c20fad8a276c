package itinerary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"wayfarer/internal/ai"
)

type Kind string

const (
	KindValidation       Kind = "validation"
	KindConfig           Kind = "config"
	KindTimeout          Kind = "timeout"
	KindModelUnavailable Kind = "model_unavailable"
	KindRateLimit        Kind = "rate_limit"
	KindAuth             Kind = "auth"
	KindUnavailable      Kind = "unavailable"
	KindParse            Kind = "parse"
	KindInternal         Kind = "internal"
)

// Error is what callers of the generation pipeline see; provider errors never escape unclassified.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	// Hint is a non-technical message suitable for end users.
	Hint string
	// Raw holds the model output when it could not be parsed.
	Raw *string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ParseFailure carries the raw model output that the normalizer rejected.
type ParseFailure struct {
	Raw string
	Err error
}

func (e *ParseFailure) Error() string { return fmt.Sprintf("parse model output: %v", e.Err) }

func (e *ParseFailure) Unwrap() error { return e.Err }

const requiredFieldsMessage = "Please provide all required fields: fromCity, destination, numberOfDays, budget, and familyType"

func missingFieldsError(fields []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Code:    "MissingFields",
		Message: fmt.Sprintf("%s (missing: %s)", requiredFieldsMessage, strings.Join(fields, ", ")),
		Hint:    "Please fill in every field of the form.",
	}
}

func invalidFieldsError(problems []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Code:    "InvalidFields",
		Message: strings.Join(problems, "; "),
		Hint:    "Please check the highlighted fields and try again.",
	}
}

// ConfigError reports a missing or placeholder provider credential.
func ConfigError(provider, envKey string) *Error {
	return &Error{
		Kind:    KindConfig,
		Status:  http.StatusInternalServerError,
		Code:    "ServerConfigError",
		Message: fmt.Sprintf("The %s API key is not configured. Please set %s in the server environment.", provider, envKey),
		Hint:    "The trip planner is not set up correctly yet. Please try again later.",
	}
}

// Classify maps any generation failure onto the endpoint taxonomy.
func Classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var pf *ParseFailure
	var unavailable *ai.ModelUnavailableError
	switch {
	case errors.As(err, &pf):
		return parsingError(pf.Raw, err)
	case errors.Is(err, ai.ErrEmptyResponse):
		return parsingError("", err)
	case errors.Is(err, ai.ErrRequestTimeout), errors.Is(err, context.DeadlineExceeded):
		return &Error{
			Kind:    KindTimeout,
			Status:  http.StatusGatewayTimeout,
			Code:    "RequestTimeout",
			Message: "The AI service did not respond in time.",
			Hint:    "This is taking longer than usual. Please try again.",
			Err:     err,
		}
	case errors.As(err, &unavailable), errors.Is(err, ai.ErrModelNotFound):
		msg := "The configured model was not found using your API key."
		if unavailable != nil {
			msg = fmt.Sprintf("None of the configured models (%s) were found using your API key.", strings.Join(unavailable.Tried, ", "))
		}
		return &Error{
			Kind:    KindModelUnavailable,
			Status:  http.StatusInternalServerError,
			Code:    "ModelNotFound",
			Message: msg,
			Hint:    "The trip planner is not set up correctly yet. Please try again later.",
			Err:     err,
		}
	case ai.IsRateLimited(err):
		return &Error{
			Kind:    KindRateLimit,
			Status:  http.StatusTooManyRequests,
			Code:    "RateLimitExceeded",
			Message: "The AI service is busy or the free quota has run out. Please try again in a few moments.",
			Hint:    "The service is busy right now. Please try again in a minute.",
			Err:     err,
		}
	case ai.IsUnauthorized(err):
		return &Error{
			Kind:    KindAuth,
			Status:  http.StatusUnauthorized,
			Code:    "AuthorizationError",
			Message: "The AI provider rejected the API key. Please check the server configuration.",
			Hint:    "The trip planner is not set up correctly yet. Please try again later.",
			Err:     err,
		}
	case ai.IsOverloaded(err):
		return &Error{
			Kind:    KindUnavailable,
			Status:  http.StatusServiceUnavailable,
			Code:    "ServiceUnavailable",
			Message: "The AI service is currently overloaded. We tried multiple times but could not generate your itinerary.",
			Hint:    "The service is busy right now. Please wait a minute and try again.",
			Err:     err,
		}
	default:
		return &Error{
			Kind:    KindInternal,
			Status:  http.StatusInternalServerError,
			Code:    "InternalError",
			Message: "An unexpected error occurred while generating your itinerary.",
			Hint:    "Something went wrong. Please try again.",
			Err:     err,
		}
	}
}

func parsingError(raw string, err error) *Error {
	return &Error{
		Kind:    KindParse,
		Status:  http.StatusInternalServerError,
		Code:    "ParsingError",
		Message: "Failed to parse the itinerary from AI response.",
		Hint:    "We could not read the generated plan. Please try again.",
		Raw:     &raw,
		Err:     err,
	}
}
