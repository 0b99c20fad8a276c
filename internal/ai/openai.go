package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const openAISystemPrompt = "You are a professional travel planner. Always respond with valid JSON only, no additional text."

// OpenAIProvider implements Generator on the chat completions API.
type OpenAIProvider struct {
	client *openai.Client
	opts   GenerationOptions
}

// NewOpenAIProvider builds a client; an empty baseURL keeps the SDK default.
func NewOpenAIProvider(apiKey, baseURL string, opts GenerationOptions) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cfg), opts: opts}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.opts.Temperature,
		MaxTokens:   p.opts.MaxOutputTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", classifyOpenAIError(model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai %s: %w", model, ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(model string, err error) *ProviderError {
	pe := &ProviderError{Provider: "openai", Model: model, Message: err.Error(), Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		pe.Status = apiErr.HTTPStatusCode
		pe.Message = apiErr.Message
		if code, ok := apiErr.Code.(string); ok && code == "model_not_found" && pe.Status == 0 {
			pe.Status = http.StatusNotFound
		}
	case errors.As(err, &reqErr):
		pe.Status = reqErr.HTTPStatusCode
	}
	return pe
}
