// Package leads provides the lead lifecycle bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"

	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/handler"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/internal/leads/statscache"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	cache   *statscache.Cache
}

// NewModule creates and initializes the leads module with all its dependencies.
// The stats cache is optional: when no Redis URL is configured the dashboard
// aggregates hit the database directly.
func NewModule(ctx context.Context, pool *pgxpool.Pool, eventBus events.Bus, cfg config.CacheConfig, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)

	var cache *statscache.Cache
	if cfg.GetRedisURL() != "" {
		var err error
		cache, err = statscache.NewFromURL(ctx, cfg.GetRedisURL(), cfg.GetStatsCacheTTL(), log)
		if err != nil {
			return nil, err
		}
		svc.SetStatsCache(cache)
	}

	return &Module{
		handler: handler.New(svc),
		service: svc,
		cache:   cache,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for external use (scheduler broadcasts).
func (m *Module) Service() *service.Service {
	return m.service
}

// Close releases the stats cache connection when one was configured.
func (m *Module) Close() error {
	return m.cache.Close()
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
