// Package app wires configuration, storage, cache and tracing into the
// blog services.
package app

import (
	"context"
	"errors"
	"fmt"

	"webblogger/internal/cache"
	"webblogger/internal/config"
	"webblogger/internal/database"
	"webblogger/internal/observability"
	"webblogger/internal/repository"
	"webblogger/internal/service"
	"webblogger/internal/validation"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App holds the connections and the services built on them.
type App struct {
	cfg             *config.Config
	db              *gorm.DB
	redis           *redis.Client
	logger          *observability.Logger
	shutdownTracing func(context.Context) error

	Posts     *service.PostService
	Comments  *service.CommentService
	Tags      *service.TagService
	Likes     *service.LikeService
	Bookmarks *service.BookmarkService
}

// New initializes tracing, connects to the database and, when enabled, to
// Redis. An unreachable Redis disables the cache instead of failing.
func New(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*App, error) {
	if logger == nil {
		logger = observability.GlobalLogger
	}
	observability.Config.EnableRepoLogging = cfg.LogRepository

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "webblogger",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.CacheEnabled {
		redisClient, err = cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.WarnContext(ctx, "Redis unavailable, continuing without cache", "error", err)
			redisClient = nil
		}
	}

	a := NewWithDeps(cfg, db, redisClient, logger)
	a.shutdownTracing = shutdownTracing
	return a, nil
}

// NewWithDeps builds the repositories and services over existing
// connections. redisClient may be nil.
func NewWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *observability.Logger) *App {
	if logger == nil {
		logger = observability.GlobalLogger
	}
	c := cache.New(redisClient, logger)
	paging := service.PagingFromConfig(cfg)
	v := validation.New()

	postRepo := repository.NewPostRepository(db, c)
	tagRepo := repository.NewTagRepository(db, c)

	return &App{
		cfg:       cfg,
		db:        db,
		redis:     redisClient,
		logger:    logger,
		Posts:     service.NewPostService(postRepo, tagRepo, v, paging),
		Comments:  service.NewCommentService(repository.NewCommentRepository(db), v, paging),
		Tags:      service.NewTagService(tagRepo, v, paging),
		Likes:     service.NewLikeService(repository.NewLikeRepository(db, c), paging),
		Bookmarks: service.NewBookmarkService(repository.NewBookmarkRepository(db), paging),
	}
}

// DB returns the database handle.
func (a *App) DB() *gorm.DB {
	return a.db
}

// CacheEnabled reports whether a Redis client is attached.
func (a *App) CacheEnabled() bool {
	return a.redis != nil
}

// Shutdown flushes traces and closes the database and Redis connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}

	if sqlDB, err := a.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("closing sql DB: %w", cerr))
		}
	}

	if a.redis != nil {
		if rerr := a.redis.Close(); rerr != nil {
			errs = append(errs, fmt.Errorf("closing redis: %w", rerr))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		a.logger.ErrorContext(ctx, "Shutdown finished with errors", "error", err)
		return err
	}
	a.logger.InfoContext(ctx, "Shutdown complete")
	return nil
}
