package itinerary

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wayfarer/internal/maps"
)

const (
	SourceLLM  = "llm"
	SourceMock = "mock"

	routeTimeout = 5 * time.Second
)

// RouteEstimator adds a travel estimate between the two cities of a request.
type RouteEstimator interface {
	GetTravelEstimate(ctx context.Context, origin, destination string) (*maps.TravelEstimate, error)
}

type Options struct {
	// UseLLM=false always answers with the mock planner.
	UseLLM bool
	// Fallback answers with the mock planner when real generation fails.
	Fallback         bool
	APIKeyConfigured bool
	Provider         string
	APIKeyEnv        string
}

type Result struct {
	Itinerary *Itinerary
	Source    string
}

// Service orchestrates validation, configuration checks, generation and the optional fallback.
type Service struct {
	llm    Planner
	routes RouteEstimator
	opts   Options
	logger *zap.Logger
}

// NewService accepts a nil llm planner when no credential is configured.
func NewService(llm Planner, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{llm: llm, opts: opts, logger: logger}
}

func (s *Service) WithRoutes(routes RouteEstimator) *Service {
	s.routes = routes
	return s
}

func (s *Service) APIKeyConfigured() bool { return s.opts.APIKeyConfigured }

func (s *Service) Provider() string { return s.opts.Provider }

// Generate returns an itinerary or an *Error describing the failure.
func (s *Service) Generate(ctx context.Context, req TripRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !s.opts.UseLLM {
		s.logger.Info("using mock itinerary, llm disabled", zap.String("destination", req.Destination))
		return s.respond(ctx, req, MockItinerary(req), SourceMock), nil
	}

	it, err := s.generate(ctx, req)
	if err != nil {
		classified := Classify(err)
		if !s.opts.Fallback {
			return nil, classified
		}
		s.logger.Warn("itinerary generation failed, falling back to mock",
			zap.String("code", classified.Code),
			zap.Error(err))
		return s.respond(ctx, req, MockItinerary(req), SourceMock), nil
	}
	return s.respond(ctx, req, it, SourceLLM), nil
}

func (s *Service) generate(ctx context.Context, req TripRequest) (*Itinerary, error) {
	if !s.opts.APIKeyConfigured || s.llm == nil {
		return nil, ConfigError(s.opts.Provider, s.opts.APIKeyEnv)
	}
	start := time.Now()
	it, err := s.llm.Plan(ctx, req)
	if err != nil {
		return nil, Classify(err)
	}
	s.logger.Info("itinerary generated",
		zap.String("provider", s.opts.Provider),
		zap.String("request", req.String()),
		zap.Int("days", len(it.Itinerary)),
		zap.Duration("elapsed", time.Since(start)))
	return it, nil
}

func (s *Service) respond(ctx context.Context, req TripRequest, it *Itinerary, source string) *Result {
	if s.routes != nil {
		rctx, cancel := context.WithTimeout(ctx, routeTimeout)
		defer cancel()
		travel, err := s.routes.GetTravelEstimate(rctx, req.FromCity, req.Destination)
		if err != nil {
			s.logger.Warn("route estimate unavailable",
				zap.String("origin", req.FromCity),
				zap.String("destination", req.Destination),
				zap.Error(err))
		} else {
			it.Travel = travel
		}
	}
	return &Result{Itinerary: it, Source: source}
}
