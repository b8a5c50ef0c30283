package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"surveybuilder/internal/cache"
	"surveybuilder/internal/config"
	"surveybuilder/internal/repository"
)

// App holds the storage backends selected by the configuration
type App struct {
	SessionRepo repository.SessionRepo
	EditorCache cache.EditorCache // nil with the memory store

	closers []func(context.Context) error
}

// Open connects the configured store. With the redis+mongo store MongoDB
// holds every session and Redis keeps a hot copy with a TTL.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store, sessions are lost on restart")
		return &App{SessionRepo: repository.NewMemorySessionRepo()}, nil
	}

	a := &App{}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.closers = append(a.closers, mongoClient.Disconnect)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	a.SessionRepo = repository.NewSessionRepo(mongoClient.Database(cfg.Mongo.Database))
	a.EditorCache = cache.NewEditorCache(rdb, cfg.Session.TTL)
	return a, nil
}

// Close releases the store connections in reverse order
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i](ctx)
	}
	a.closers = nil
}
