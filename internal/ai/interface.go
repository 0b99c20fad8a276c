package ai

import (
	"context"
)

// Generator is one text-generation backend (Gemini, OpenAI, ...).
// Implementations make exactly one outbound request per call and report failures as *ProviderError.
type Generator interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// Generate sends prompt to the given model and returns the raw text payload.
	Generate(ctx context.Context, model, prompt string) (string, error)
}
