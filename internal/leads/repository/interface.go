package repository

import (
	"context"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Store is the persistence contract the leads service depends on.
// The pgx-backed Repository is the production implementation; tests use a fake.
type Store interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	GetScoped(ctx context.Context, id uuid.UUID, scope domain.Scope) (Lead, error)
	List(ctx context.Context, scope domain.Scope, filter ListFilter) ([]Lead, int, error)
	UpdateScoped(ctx context.Context, id uuid.UUID, scope domain.Scope, patch UpdatePatch) (Lead, error)
	AssignScoped(ctx context.Context, id uuid.UUID, scope domain.Scope, params AssignParams) (Lead, error)
	DeleteScoped(ctx context.Context, id uuid.UUID, scope domain.Scope) error
	EligibleAssignee(ctx context.Context, agentID uuid.UUID) (Assignee, error)
	ActorDisplayName(ctx context.Context, userID uuid.UUID) (string, error)
	Stats(ctx context.Context, scope domain.Scope) (Stats, error)
}
