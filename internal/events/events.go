// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Lead Lifecycle Events
// =============================================================================

// LeadCreated is published after a new lead is persisted.
type LeadCreated struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	CreatedByID uuid.UUID `json:"createdById"`
	ActorName   string    `json:"actorName"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadUpdated is published after any lead mutation (status update or
// assignment) is persisted.
type LeadUpdated struct {
	BaseEvent
	LeadID         uuid.UUID  `json:"leadId"`
	UpdatedByID    uuid.UUID  `json:"updatedById"`
	ActorName      string     `json:"actorName"`
	Category       string     `json:"category"`
	Status         string     `json:"status"`
	AdminProcessed bool       `json:"adminProcessed"`
	AssignedToID   *uuid.UUID `json:"assignedToId,omitempty"`
	CreatedByID    uuid.UUID  `json:"createdById"`
}

func (e LeadUpdated) EventName() string { return "leads.lead.updated" }

// LeadDeleted is published after a lead is hard-deleted.
type LeadDeleted struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	DeletedByID uuid.UUID `json:"deletedById"`
	ActorName   string    `json:"actorName"`
}

func (e LeadDeleted) EventName() string { return "leads.lead.deleted" }

// LeadAssigned is published when a lead is handed off to a follow-up agent
// in the managing organization. Assignment is one-shot: this event fires at
// most once per lead.
type LeadAssigned struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	AssignedToID uuid.UUID `json:"assignedToId"`
	AssignedByID uuid.UUID `json:"assignedById"`
	ActorName    string    `json:"actorName"`
	Notes        string    `json:"notes,omitempty"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// StatsUpdated carries a precomputed dashboard snapshot for push-based
// refresh. Role names the audience the snapshot was scoped for.
type StatsUpdated struct {
	BaseEvent
	Role     string      `json:"role"`
	Snapshot interface{} `json:"snapshot"`
}

func (e StatsUpdated) EventName() string { return "leads.stats.updated" }
