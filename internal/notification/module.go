// Package notification sends emails in response to domain events. It
// inverts the dependency: the leads module never touches mail delivery.
package notification

import (
	"context"

	"leadflow_backend/internal/email"
	"leadflow_backend/internal/events"
	leadrepo "leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// AssigneeReader resolves an assignment target's contact details.
type AssigneeReader interface {
	EligibleAssignee(ctx context.Context, agentID uuid.UUID) (leadrepo.Assignee, error)
}

// LeadNameReader resolves a lead's display name for email content.
type LeadNameReader interface {
	LeadDisplayName(ctx context.Context, id uuid.UUID) (string, error)
}

// Module subscribes to domain events and sends notification emails.
// Delivery is best effort: failures are logged, never retried, and never
// surfaced to the request that published the event.
type Module struct {
	sender    email.Sender
	assignees AssigneeReader
	leadNames LeadNameReader
	log       *logger.Logger
}

func NewModule(sender email.Sender, assignees AssigneeReader, leadNames LeadNameReader, log *logger.Logger) *Module {
	return &Module{
		sender:    sender,
		assignees: assignees,
		leadNames: leadNames,
		log:       log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes the module to the events it acts on.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadAssigned{}.EventName(), m)
	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadAssigned:
		m.handleLeadAssigned(ctx, e)
	}
	return nil
}

func (m *Module) handleLeadAssigned(ctx context.Context, e events.LeadAssigned) {
	assignee, err := m.assignees.EligibleAssignee(ctx, e.AssignedToID)
	if err != nil {
		m.log.Warn("assignment email skipped, assignee lookup failed", "error", err, "user_id", e.AssignedToID)
		return
	}
	if assignee.Email == "" {
		return
	}

	leadName, err := m.leadNames.LeadDisplayName(ctx, e.LeadID)
	if err != nil {
		m.log.Warn("assignment email skipped, lead lookup failed", "error", err, "lead_id", e.LeadID)
		return
	}

	if err := m.sender.SendLeadAssignedEmail(ctx, assignee.Email, assignee.Name, leadName, e.ActorName, e.Notes); err != nil {
		m.log.Warn("assignment email delivery failed", "error", err, "lead_id", e.LeadID)
		return
	}

	m.log.Info("assignment email sent", "lead_id", e.LeadID, "user_id", e.AssignedToID)
}

var _ events.Handler = (*Module)(nil)
