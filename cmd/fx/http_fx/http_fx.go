package http_fx

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wayfarer/internal/config"
	httptransport "wayfarer/internal/http"
	"wayfarer/internal/http/handlers"
	"wayfarer/internal/modules/itinerary"
	"wayfarer/internal/modules/trip"
)

var Module = fx.Options(
	fx.Provide(handlers.NewItineraryHandler),
	fx.Provide(handlers.NewTripHandler),
	fx.Provide(provideHealthHandler),
	fx.Provide(provideRouter),
	fx.Provide(provideServer),
)

func provideHealthHandler(itineraries *itinerary.Service, trips *trip.Service, cfg config.Config, logger *zap.Logger) *handlers.HealthHandler {
	return handlers.NewHealthHandler(itineraries, trips, cfg.Store.Driver, logger)
}

func provideRouter(
	cfg config.Config,
	logger *zap.Logger,
	itineraryHandler *handlers.ItineraryHandler,
	tripHandler *handlers.TripHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	gin.SetMode(cfg.HTTP.Mode)
	return httptransport.NewRouter(httptransport.RouterDeps{
		Logger:       logger.Named("http"),
		AllowOrigins: cfg.HTTP.AllowOrigins,
		Itinerary:    itineraryHandler,
		Trip:         tripHandler,
		Health:       healthHandler,
	})
}

func provideServer(cfg config.Config, engine *gin.Engine, logger *zap.Logger) *httptransport.Server {
	return httptransport.NewServer(cfg.HTTP.Addr, engine, logger)
}
