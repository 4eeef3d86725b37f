package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestScopeForDecisionTable(t *testing.T) {
	actorID := uuid.New()
	orgID := uuid.New()

	cases := []struct {
		role Role
		want ScopeKind
	}{
		{RoleAgent1, ScopeCreatorUnprocessed},
		{RoleAgent2, ScopeUnprocessed},
		{RoleAdmin, ScopeOrganization},
		{RoleSuperAdmin, ScopeAll},
	}

	for _, tc := range cases {
		scope := ScopeFor(Actor{ID: actorID, Role: tc.role, OrganizationID: orgID})
		if scope.Kind != tc.want {
			t.Errorf("ScopeFor(%s).Kind = %d, want %d", tc.role, scope.Kind, tc.want)
		}
		if scope.ActorID != actorID {
			t.Errorf("ScopeFor(%s) lost actor id", tc.role)
		}
	}

	adminScope := ScopeFor(Actor{ID: actorID, Role: RoleAdmin, OrganizationID: orgID})
	if adminScope.OrganizationID != orgID {
		t.Fatal("admin scope must carry the actor's organization")
	}
}

func TestCapabilityTable(t *testing.T) {
	cases := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAgent1, CapCreateLead, true},
		{RoleAgent1, CapUpdateLead, false},
		{RoleAgent1, CapDeleteLead, false},
		{RoleAgent2, CapUpdateLead, true},
		{RoleAgent2, CapCreateLead, false},
		{RoleAgent2, CapAssignLead, false},
		{RoleAdmin, CapCreateLead, true},
		{RoleAdmin, CapUpdateLead, true},
		{RoleAdmin, CapAssignLead, true},
		{RoleAdmin, CapDeleteLead, true},
		{RoleSuperAdmin, CapAssignLead, true},
		{RoleSuperAdmin, CapDeleteLead, false},
	}

	for _, tc := range cases {
		if got := tc.role.Can(tc.cap); got != tc.want {
			t.Errorf("%s.Can(%s) = %v, want %v", tc.role, tc.cap, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"agent1", "agent2", "admin", "superadmin"} {
		if _, ok := ParseRole(raw); !ok {
			t.Errorf("ParseRole(%q) rejected a valid role", raw)
		}
	}
	if _, ok := ParseRole("manager"); ok {
		t.Error("ParseRole accepted an unknown role")
	}
}
