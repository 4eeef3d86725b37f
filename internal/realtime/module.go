// Package realtime bridges domain events to connected browsers over SSE.
// It subscribes to the event bus and fans lead lifecycle and dashboard
// events out to the clients allowed to see them.
package realtime

import (
	"context"

	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/realtime/sse"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Module is the realtime bounded context module implementing http.Module.
type Module struct {
	sse *sse.Service
	log *logger.Logger
}

func NewModule(log *logger.Logger) *Module {
	return &Module{
		sse: sse.New(log),
		log: log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "realtime" }

// SSE exposes the underlying connection service.
func (m *Module) SSE() *sse.Service { return m.sse }

// Close terminates all open SSE connections.
func (m *Module) Close() { m.sse.Close() }

// RegisterRoutes mounts the SSE stream endpoint. EventSource cannot set
// headers, so the auth middleware also accepts the token as a query param.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/leads/events", m.sse.Handler(identify))
}

func identify(c *gin.Context) (uuid.UUID, string, bool) {
	id := httpkit.GetIdentity(c)
	if !id.IsAuthenticated() {
		return uuid.Nil, "", false
	}
	roles := id.Roles()
	if len(roles) == 0 {
		return uuid.Nil, "", false
	}
	return id.UserID(), roles[0], true
}

// RegisterHandlers subscribes the module to the domain events it forwards.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.LeadUpdated{}.EventName(), m)
	bus.Subscribe(events.LeadDeleted{}.EventName(), m)
	bus.Subscribe(events.LeadAssigned{}.EventName(), m)
	bus.Subscribe(events.StatsUpdated{}.EventName(), m)

	m.log.Info("realtime module registered event handlers")
}

// Handle routes events to the appropriate fan-out.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		m.handleLeadCreated(e)
	case events.LeadUpdated:
		m.handleLeadUpdated(e)
	case events.LeadDeleted:
		m.handleLeadDeleted(e)
	case events.LeadAssigned:
		m.handleLeadAssigned(e)
	case events.StatsUpdated:
		m.handleStatsUpdated(e)
	}
	return nil
}

// New leads surface for everyone who could see the unprocessed record, plus
// the creator's own stream.
func (m *Module) handleLeadCreated(e events.LeadCreated) {
	event := sse.Event{
		Type:                sse.EventLeadCreated,
		LeadID:              e.LeadID,
		TriggeringActorName: e.ActorName,
		Data: map[string]interface{}{
			"category": e.Category,
			"status":   e.Status,
		},
	}
	m.sse.PublishToRoles(event, string(domain.RoleAgent2), string(domain.RoleAdmin), string(domain.RoleSuperAdmin))
	m.sse.PublishToUser(e.CreatedByID, event)
}

// Updates reach administrators always; agent streams only while the lead is
// still visible to them.
func (m *Module) handleLeadUpdated(e events.LeadUpdated) {
	event := sse.Event{
		Type:                sse.EventLeadUpdated,
		LeadID:              e.LeadID,
		TriggeringActorName: e.ActorName,
		Data: map[string]interface{}{
			"category":       e.Category,
			"status":         e.Status,
			"adminProcessed": e.AdminProcessed,
		},
	}
	m.sse.PublishToRoles(event, string(domain.RoleAdmin), string(domain.RoleSuperAdmin))
	if !e.AdminProcessed {
		m.sse.PublishToRoles(event, string(domain.RoleAgent2))
		m.sse.PublishToUser(e.CreatedByID, event)
	}
	if e.AssignedToID != nil {
		m.sse.PublishToUser(*e.AssignedToID, event)
	}
}

func (m *Module) handleLeadDeleted(e events.LeadDeleted) {
	m.sse.PublishToRoles(sse.Event{
		Type:                sse.EventLeadDeleted,
		LeadID:              e.LeadID,
		TriggeringActorName: e.ActorName,
	}, string(domain.RoleAdmin), string(domain.RoleSuperAdmin))
}

func (m *Module) handleLeadAssigned(e events.LeadAssigned) {
	event := sse.Event{
		Type:                sse.EventLeadAssigned,
		LeadID:              e.LeadID,
		TriggeringActorName: e.ActorName,
		Data: map[string]interface{}{
			"assignedToId": e.AssignedToID,
			"notes":        e.Notes,
		},
	}
	m.sse.PublishToUser(e.AssignedToID, event)
	m.sse.PublishToRoles(event, string(domain.RoleAdmin), string(domain.RoleSuperAdmin))
}

func (m *Module) handleStatsUpdated(e events.StatsUpdated) {
	m.sse.PublishToRoles(sse.Event{
		Type: sse.EventStatsUpdated,
		Data: e.Snapshot,
	}, e.Role)
}

// Compile-time checks
var (
	_ apphttp.Module = (*Module)(nil)
	_ events.Handler = (*Module)(nil)
)
