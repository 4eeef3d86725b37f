package sse

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID uuid.UUID, role string, buffer int) *client {
	return &client{userID: userID, role: role, events: make(chan Event, buffer)}
}

func drain(c *client) []Event {
	var out []Event
	for {
		select {
		case e := <-c.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestPublishToUserReachesAllConnections(t *testing.T) {
	svc := New(nil)
	userID := uuid.New()

	first := newTestClient(userID, "agent2", 4)
	second := newTestClient(userID, "agent2", 4)
	other := newTestClient(uuid.New(), "agent2", 4)
	svc.addClient(first)
	svc.addClient(second)
	svc.addClient(other)

	svc.PublishToUser(userID, Event{Type: EventLeadAssigned})

	assert.Len(t, drain(first), 1)
	assert.Len(t, drain(second), 1)
	assert.Empty(t, drain(other))
}

func TestPublishToRolesMatchesAnyRole(t *testing.T) {
	svc := New(nil)

	admin := newTestClient(uuid.New(), "admin", 4)
	super := newTestClient(uuid.New(), "superadmin", 4)
	agent := newTestClient(uuid.New(), "agent1", 4)
	svc.addClient(admin)
	svc.addClient(super)
	svc.addClient(agent)

	svc.PublishToRoles(Event{Type: EventLeadDeleted}, "admin", "superadmin")

	assert.Len(t, drain(admin), 1)
	assert.Len(t, drain(super), 1)
	assert.Empty(t, drain(agent))
}

func TestSlowClientDropsInsteadOfBlocking(t *testing.T) {
	svc := New(nil)

	slow := newTestClient(uuid.New(), "agent2", 1)
	svc.addClient(slow)

	svc.Broadcast(Event{Type: EventLeadCreated})
	svc.Broadcast(Event{Type: EventLeadUpdated})

	// Buffer of one: the second event is dropped, not queued.
	events := drain(slow)
	require.Len(t, events, 1)
	assert.Equal(t, EventLeadCreated, events[0].Type)
}

func TestRemoveClientIsIdempotent(t *testing.T) {
	svc := New(nil)

	c := newTestClient(uuid.New(), "agent2", 1)
	svc.addClient(c)
	require.Equal(t, 1, svc.ClientCount())

	svc.removeClient(c)
	svc.removeClient(c)
	assert.Equal(t, 0, svc.ClientCount())

	// Publishing after removal must not panic on the closed channel.
	svc.Broadcast(Event{Type: EventStatsUpdated})
}
