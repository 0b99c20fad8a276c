package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wayfarer/internal/config"
	"wayfarer/internal/infra"
)

var Module = fx.Provide(provideConfig, provideLogger)

func provideConfig() (config.Config, error) {
	return config.Load()
}

func provideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	logger, err := infra.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))
	return logger, nil
}
