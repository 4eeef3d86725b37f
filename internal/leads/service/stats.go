package service

import (
	"context"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/apperr"

	"leadflow_backend/internal/leads/transport"

	"golang.org/x/sync/errgroup"
)

// Stats computes the dashboard snapshot over the actor's visibility scope.
// Safe to call on every dashboard poll; an optional cache absorbs the
// 10-second polling load.
func (s *Service) Stats(ctx context.Context, actor domain.Actor) (transport.StatsResponse, error) {
	scope := domain.ScopeFor(actor)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, scope); ok {
			return toStatsResponse(cached), nil
		}
	}

	stats, err := s.repo.Stats(ctx, scope)
	if err != nil {
		return transport.StatsResponse{}, apperr.Wrap(apperr.KindInternal, "failed to aggregate stats", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, scope, stats)
	}

	return toStatsResponse(stats), nil
}

// BroadcastStats recomputes per-role snapshots and publishes them for
// push-based dashboard refresh. Agent snapshots use the shared unprocessed
// scope; per-user agent1 snapshots are left to polling.
func (s *Service) BroadcastStats(ctx context.Context) error {
	scopes := map[string]domain.Scope{
		string(domain.RoleAgent2):     {Kind: domain.ScopeUnprocessed},
		string(domain.RoleSuperAdmin): {Kind: domain.ScopeAll},
	}

	g, gctx := errgroup.WithContext(ctx)
	for role, scope := range scopes {
		g.Go(func() error {
			stats, err := s.repo.Stats(gctx, scope)
			if err != nil {
				return err
			}

			s.publish(gctx, events.StatsUpdated{
				BaseEvent: events.NewBaseEvent(),
				Role:      role,
				Snapshot:  toStatsResponse(stats),
			})
			return nil
		})
	}

	return g.Wait()
}
