package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/wrestler-profile-api/internal/config"
	"github.com/kapu/wrestler-profile-api/internal/handler"
	"github.com/kapu/wrestler-profile-api/internal/service/cache"
	"github.com/kapu/wrestler-profile-api/internal/service/cagematch"
)

// Container bundles the assembled services behind the HTTP server.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Resolver *cagematch.Resolver
	Handler  http.Handler

	closers []func()
}

// Build assembles the scraper, the optional profile cache and the router.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	var profileCache cagematch.ProfileCache
	if cfg.Cache.Enabled {
		cacheSvc, cacheErr := cache.NewCacheService(ctx, cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", cacheErr)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
		profileCache = cacheSvc
		logger.Info("Profile cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
	}

	client := cagematch.NewClient(cagematch.ClientConfig{
		BaseURL:   cfg.Cagematch.BaseURL,
		UserAgent: cfg.Cagematch.UserAgent,
		Timeout:   cfg.Cagematch.Timeout,
	}, logger)

	resolver := cagematch.NewResolver(client, profileCache, cfg.Cache.TTL, logger)
	router := handler.NewRouter(handler.NewWrestlerHandler(resolver, logger), logger)

	logger.Info("Services assembled",
		zap.String("upstream", client.BaseURL()),
		zap.Bool("cache", profileCache != nil))

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Resolver: resolver,
		Handler:  router,
		closers:  closers,
	}, nil
}

// Close releases resources acquired by Build, in reverse order.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
