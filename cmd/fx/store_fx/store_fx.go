package store_fx

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wayfarer/internal/config"
	"wayfarer/internal/infra"
	"wayfarer/internal/modules/trip"
)

var Module = fx.Provide(provideStore, provideTripService)

func provideStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (trip.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, closeFn, err := OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(closeFn))
	return store, nil
}

func provideTripService(store trip.Store, cfg config.Config, logger *zap.Logger) *trip.Service {
	return trip.NewService(store, cfg.Store.Dedup, logger.Named("trip"))
}

// OpenStore connects the configured trip store and returns a func releasing its connections.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (trip.Store, func(), error) {
	logger.Info("opening trip store", zap.String("store", cfg.Driver))

	switch cfg.Driver {
	case config.StorePostgres:
		if cfg.Migrate {
			if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
				return nil, nil, err
			}
		}
		pool, err := infra.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return trip.NewPostgresStore(pool), pool.Close, nil

	case config.StoreMongo:
		client, err := infra.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		store := trip.NewMongoStore(client.Database(cfg.MongoDatabase))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return store, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.StoreRedis:
		rdb, err := infra.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return trip.NewRedisStore(rdb, logger.Named("trip")), func() { _ = rdb.Close() }, nil

	default:
		return trip.NewMemoryStore(), func() {}, nil
	}
}
