// Package domain holds the pure lead lifecycle rules: scoring, status
// transitions, role capabilities and visibility scoping. It has no
// dependencies on transport or storage.
package domain

import (
	"github.com/google/uuid"
)

// Role is the closed set of actor roles.
type Role string

const (
	// RoleAgent1 is the intake agent who captures new leads.
	RoleAgent1 Role = "agent1"
	// RoleAgent2 is the follow-up agent who works leads.
	RoleAgent2 Role = "agent2"
	// RoleAdmin administers a single organization.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin oversees all organizations and belongs to none.
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole returns the Role for a raw string, false when unknown.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAgent1, RoleAgent2, RoleAdmin, RoleSuperAdmin:
		return Role(raw), true
	}
	return "", false
}

// IsAdministrative reports whether the role carries administrator powers.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Capability is an operation a role may perform on leads.
type Capability string

const (
	CapCreateLead Capability = "lead.create"
	CapUpdateLead Capability = "lead.update"
	CapAssignLead Capability = "lead.assign"
	CapDeleteLead Capability = "lead.delete"
	CapViewStats  Capability = "lead.stats"
)

// capabilities is the single role → allowed operations table. Handlers and
// services consult this instead of switching on role strings per route.
var capabilities = map[Role]map[Capability]bool{
	RoleAgent1: {
		CapCreateLead: true,
		CapViewStats:  true,
	},
	RoleAgent2: {
		CapUpdateLead: true,
		CapViewStats:  true,
	},
	RoleAdmin: {
		CapCreateLead: true,
		CapUpdateLead: true,
		CapAssignLead: true,
		CapDeleteLead: true,
		CapViewStats:  true,
	},
	RoleSuperAdmin: {
		CapUpdateLead: true,
		CapAssignLead: true,
		CapViewStats:  true,
	},
}

// Can reports whether the role may perform the capability.
func (r Role) Can(cap Capability) bool {
	return capabilities[r][cap]
}

// Actor is the authenticated principal a request acts as.
type Actor struct {
	ID             uuid.UUID
	Role           Role
	OrganizationID uuid.UUID // uuid.Nil for superadmin
}
