package itinerary

import (
	"context"
)

// Planner turns a validated request into an itinerary. One implementation exists per backend.
type Planner interface {
	Plan(ctx context.Context, req TripRequest) (*Itinerary, error)
}

// TextGenerator is the model client as seen by the LLM planner.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMPlanner runs Prompt Builder, model client and normalizer in sequence.
type LLMPlanner struct {
	client     TextGenerator
	normalizer Normalizer
}

func NewLLMPlanner(client TextGenerator, normalizer Normalizer) *LLMPlanner {
	return &LLMPlanner{client: client, normalizer: normalizer}
}

func (p *LLMPlanner) Plan(ctx context.Context, req TripRequest) (*Itinerary, error) {
	raw, err := p.client.Generate(ctx, BuildPrompt(req))
	if err != nil {
		return nil, err
	}
	it, err := p.normalizer.Normalize(raw)
	if err != nil {
		return nil, &ParseFailure{Raw: raw, Err: err}
	}
	return it, nil
}
