// Package sse provides Server-Sent Events support for live lead and
// dashboard updates.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"

	"leadflow_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType names the SSE event as seen by the browser's EventSource.
type EventType string

const (
	EventLeadCreated  EventType = "leadCreated"
	EventLeadUpdated  EventType = "leadUpdated"
	EventLeadDeleted  EventType = "leadDeleted"
	EventLeadAssigned EventType = "leadAssigned"
	EventStatsUpdated EventType = "statsUpdated"
)

// Event is the SSE payload pushed to connected clients.
type Event struct {
	Type                EventType   `json:"type"`
	LeadID              uuid.UUID   `json:"leadId,omitempty"`
	TriggeringActorName string      `json:"triggeringActorName,omitempty"`
	Data                interface{} `json:"data,omitempty"`
}

// client is one open EventSource connection. A user may hold several.
type client struct {
	userID uuid.UUID
	role   string
	events chan Event
}

// Service manages SSE connections and event fan-out. Connections are
// addressable by user and by role; slow clients drop events rather than
// blocking the publisher.
type Service struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *logger.Logger
}

func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.events)
}

// PublishToUser sends an event to every connection the user holds.
func (s *Service) PublishToUser(userID uuid.UUID, event Event) {
	s.fanOut(event, func(c *client) bool { return c.userID == userID })
}

// PublishToRoles sends an event to every connection whose user holds one of
// the roles. A user matching several roles still receives the event once
// per connection.
func (s *Service) PublishToRoles(event Event, roles ...string) {
	s.fanOut(event, func(c *client) bool {
		for _, role := range roles {
			if c.role == role {
				return true
			}
		}
		return false
	})
}

// Broadcast sends an event to every connected client.
func (s *Service) Broadcast(event Event) {
	s.fanOut(event, func(*client) bool { return true })
}

func (s *Service) fanOut(event Event, match func(*client) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for c := range s.clients {
		if !match(c) {
			continue
		}
		select {
		case c.events <- event:
		default:
			if s.log != nil {
				s.log.Warn("sse buffer full, dropping event", "user_id", c.userID, "event", event.Type)
			}
		}
	}
}

// ClientCount reports the number of open connections.
func (s *Service) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Handler returns a Gin handler for SSE connections. Identity extraction is
// injected so this package stays off the auth middleware internals.
func (s *Service) Handler(identify func(*gin.Context) (userID uuid.UUID, role string, ok bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := identify(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{
			userID: userID,
			role:   role,
			events: make(chan Event, 32),
		}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"userId": userID})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case event, open := <-cl.events:
				if !open {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					continue
				}
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down all open connections.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		close(c.events)
	}
	s.clients = make(map[*client]struct{})
}
