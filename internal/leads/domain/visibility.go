package domain

import "github.com/google/uuid"

// ScopeKind selects which visibility predicate applies to a query.
type ScopeKind int

const (
	// ScopeCreatorUnprocessed limits to leads the actor created that no
	// administrator has touched yet (agent1).
	ScopeCreatorUnprocessed ScopeKind = iota
	// ScopeUnprocessed limits to all leads no administrator has touched (agent2).
	ScopeUnprocessed
	// ScopeOrganization limits to leads whose creator or assignee belongs
	// to the actor's organization (admin).
	ScopeOrganization
	// ScopeAll applies no restriction (superadmin).
	ScopeAll
)

// Scope is the compiled visibility predicate for an actor. The repository
// renders it into SQL WHERE fragments; every list, read, update and delete
// must carry it. A record outside scope reads as not found, never forbidden.
type Scope struct {
	Kind           ScopeKind
	ActorID        uuid.UUID
	OrganizationID uuid.UUID
}

// ScopeFor builds the visibility scope for an actor from the closed
// decision table. This is the only place role drives lead visibility.
func ScopeFor(actor Actor) Scope {
	switch actor.Role {
	case RoleAgent1:
		return Scope{Kind: ScopeCreatorUnprocessed, ActorID: actor.ID}
	case RoleAgent2:
		return Scope{Kind: ScopeUnprocessed, ActorID: actor.ID}
	case RoleAdmin:
		return Scope{Kind: ScopeOrganization, ActorID: actor.ID, OrganizationID: actor.OrganizationID}
	default:
		return Scope{Kind: ScopeAll, ActorID: actor.ID}
	}
}
