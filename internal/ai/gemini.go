package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GenerationOptions are the sampling settings shared by every backend.
type GenerationOptions struct {
	Temperature     float32
	MaxOutputTokens int
}

// GeminiProvider implements Generator using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	opts   GenerationOptions
}

// NewGeminiProvider initializes a new Gemini client.
func NewGeminiProvider(ctx context.Context, apiKey string, opts GenerationOptions, clientOpts ...option.ClientOption) (*GeminiProvider, error) {
	clientOpts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, clientOpts...)
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, opts: opts}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) Generate(ctx context.Context, model, prompt string) (string, error) {
	m := p.client.GenerativeModel(model)
	// Force JSON response for structured parsing.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(p.opts.Temperature)
	if p.opts.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(int32(p.opts.MaxOutputTokens))
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiError(model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini %s: %w", model, ErrEmptyResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return text.String(), nil
}

// classifyGeminiError pulls the HTTP status out of the SDK error chain.
func classifyGeminiError(model string, err error) *ProviderError {
	pe := &ProviderError{Provider: "gemini", Model: model, Message: err.Error(), Err: err}

	var gerr *googleapi.Error
	var aerr *apierror.APIError
	switch {
	case errors.As(err, &gerr):
		pe.Status = gerr.Code
		if gerr.Message != "" {
			pe.Message = gerr.Message
		}
	case errors.As(err, &aerr):
		if code := aerr.HTTPCode(); code > 0 {
			pe.Status = code
		}
	}
	return pe
}
