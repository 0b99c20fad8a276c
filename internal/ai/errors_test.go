package ai

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/googleapis/gax-go/v2/apierror"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestProviderErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         *ProviderError
		transient   bool
		notFound    bool
		rateLimited bool
		overloaded  bool
		auth        bool
	}{
		{"429", &ProviderError{Status: http.StatusTooManyRequests}, true, false, true, false, false},
		{"quota text", &ProviderError{Message: "Quota exceeded"}, true, false, true, false, false},
		{"503", &ProviderError{Status: http.StatusServiceUnavailable}, true, false, false, true, false},
		{"overloaded text", &ProviderError{Message: "The model is overloaded."}, true, false, false, true, false},
		{"404", &ProviderError{Status: http.StatusNotFound}, false, true, false, false, false},
		{"not found text", &ProviderError{Message: "models/x is not found"}, false, true, false, false, false},
		{"403", &ProviderError{Status: http.StatusForbidden}, false, false, false, false, true},
		{"api key text", &ProviderError{Status: http.StatusBadRequest, Message: "API key not valid"}, false, false, false, false, true},
		{"400", &ProviderError{Status: http.StatusBadRequest, Message: "bad request"}, false, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, tt.err.Transient())
			assert.Equal(t, tt.notFound, tt.err.NotFound())
			assert.Equal(t, tt.notFound, errors.Is(tt.err, ErrModelNotFound))
			assert.Equal(t, tt.rateLimited, tt.err.RateLimited())
			assert.Equal(t, tt.overloaded, tt.err.Overloaded())
			assert.Equal(t, tt.auth, tt.err.Unauthorized())
		})
	}
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("generate: %w", &ProviderError{Status: http.StatusTooManyRequests})
	assert.True(t, IsRateLimited(err))
	assert.False(t, IsOverloaded(err))
	assert.False(t, IsUnauthorized(errors.New("plain")))
}

func TestClassifyGeminiError(t *testing.T) {
	gerr := &googleapi.Error{Code: http.StatusServiceUnavailable, Message: "The model is overloaded. Please try again later."}
	pe := classifyGeminiError("gemini-2.5-flash", fmt.Errorf("rpc: %w", gerr))
	assert.Equal(t, http.StatusServiceUnavailable, pe.Status)
	assert.Equal(t, "gemini-2.5-flash", pe.Model)
	assert.True(t, pe.Transient())

	wrapped, ok := apierror.FromError(&googleapi.Error{Code: http.StatusNotFound, Message: "models/x is not found"})
	if assert.True(t, ok) {
		pe = classifyGeminiError("x", wrapped)
		assert.Equal(t, http.StatusNotFound, pe.Status)
		assert.True(t, pe.NotFound())
	}

	pe = classifyGeminiError("x", errors.New("connection reset"))
	assert.Zero(t, pe.Status)
	assert.False(t, pe.Transient())
}

func TestClassifyOpenAIError(t *testing.T) {
	pe := classifyOpenAIError("gpt", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "Incorrect API key provided"})
	assert.Equal(t, http.StatusUnauthorized, pe.Status)
	assert.True(t, pe.Unauthorized())

	pe = classifyOpenAIError("gpt", &openai.RequestError{HTTPStatusCode: http.StatusServiceUnavailable, Err: errors.New("bad gateway")})
	assert.Equal(t, http.StatusServiceUnavailable, pe.Status)
	assert.True(t, pe.Overloaded())
}
