package ai_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wayfarer/internal/ai"
	"wayfarer/internal/config"
	"wayfarer/internal/maps"
	"wayfarer/internal/modules/itinerary"
)

var Module = fx.Provide(provideItineraryService)

func provideItineraryService(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*itinerary.Service, error) {
	svc, closeFn, err := NewItineraryService(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(closeFn))
	return svc, nil
}

// NewItineraryService builds the generation pipeline for the configured provider.
// Without a usable credential the service is still returned and answers with ServerConfigError.
func NewItineraryService(ctx context.Context, cfg config.Config, logger *zap.Logger) (*itinerary.Service, func() error, error) {
	closeFn := func() error { return nil }

	var planner itinerary.Planner
	if cfg.AI.UseLLM && cfg.AI.APIKeyConfigured() {
		gen, closeGen, err := newGenerator(ctx, cfg.AI)
		if err != nil {
			return nil, nil, err
		}
		closeFn = closeGen

		client := ai.NewClient(gen, cfg.AI.Models(), logger.Named("ai")).
			WithTimeout(cfg.AI.Timeout).
			WithMaxAttempts(cfg.AI.MaxAttempts)
		planner = itinerary.NewLLMPlanner(client, itinerary.Normalizer{Strict: cfg.AI.StrictParse})
		logger.Info("llm planner ready",
			zap.String("provider", gen.Name()),
			zap.Strings("models", client.Models()))
	} else if cfg.AI.UseLLM {
		logger.Warn("llm api key missing or placeholder", zap.String("env", cfg.AI.APIKeyEnv()))
	}

	svc := itinerary.NewService(planner, itinerary.Options{
		UseLLM:           cfg.AI.UseLLM,
		Fallback:         cfg.AI.Fallback,
		APIKeyConfigured: cfg.AI.APIKeyConfigured(),
		Provider:         cfg.AI.Provider,
		APIKeyEnv:        cfg.AI.APIKeyEnv(),
	}, logger.Named("itinerary"))

	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			logger.Warn("route estimates disabled", zap.Error(err))
		} else {
			svc.WithRoutes(routes)
		}
	}
	return svc, closeFn, nil
}

func newGenerator(ctx context.Context, cfg config.AIConfig) (ai.Generator, func() error, error) {
	opts := ai.GenerationOptions{Temperature: cfg.Temperature, MaxOutputTokens: cfg.MaxOutputTokens}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return ai.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, opts), func() error { return nil }, nil
	default:
		p, err := ai.NewGeminiProvider(ctx, cfg.GeminiKey, opts)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
}
