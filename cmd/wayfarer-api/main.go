// README: Entry point; wires config, trip store, itinerary pipeline and HTTP server with fx.
package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"wayfarer/cmd/fx/ai_fx"
	"wayfarer/cmd/fx/config_fx"
	"wayfarer/cmd/fx/http_fx"
	"wayfarer/cmd/fx/store_fx"
	"wayfarer/internal/config"
	httptransport "wayfarer/internal/http"
)

func main() {
	app := fx.New(
		config_fx.Module,
		store_fx.Module,
		ai_fx.Module,
		http_fx.Module,

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, server *httptransport.Server, cfg config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting travel planner api",
				zap.String("addr", server.Addr()),
				zap.String("provider", cfg.AI.Provider),
				zap.Bool("api_key_configured", cfg.AI.APIKeyConfigured()),
				zap.String("store", cfg.Store.Driver))
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
