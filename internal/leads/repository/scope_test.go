package repository

import (
	"strings"
	"testing"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestScopeClauseAgent1LimitsToCreatorAndUnprocessed(t *testing.T) {
	actor := uuid.New()
	args := make([]interface{}, 0)

	clause := scopeClause(domain.Scope{Kind: domain.ScopeCreatorUnprocessed, ActorID: actor}, &args)

	if !strings.Contains(clause, "l.created_by = $1") {
		t.Fatalf("agent1 clause missing creator predicate: %q", clause)
	}
	if !strings.Contains(clause, "l.admin_processed = false") {
		t.Fatalf("agent1 clause missing admin_processed gate: %q", clause)
	}
	if len(args) != 1 || args[0] != actor {
		t.Fatalf("agent1 clause must bind the actor id, got %v", args)
	}
}

func TestScopeClauseAgent2LimitsToUnprocessedOnly(t *testing.T) {
	args := make([]interface{}, 0)

	clause := scopeClause(domain.Scope{Kind: domain.ScopeUnprocessed}, &args)

	if clause != "l.admin_processed = false" {
		t.Fatalf("agent2 clause = %q", clause)
	}
	if strings.Contains(clause, "created_by") {
		t.Fatal("agent2 must see unprocessed leads org-wide, not only own")
	}
	if len(args) != 0 {
		t.Fatalf("agent2 clause must bind no args, got %v", args)
	}
}

func TestScopeClauseAdminScopesByOrganizationWithoutProcessedGate(t *testing.T) {
	orgID := uuid.New()
	args := make([]interface{}, 0)

	clause := scopeClause(domain.Scope{Kind: domain.ScopeOrganization, OrganizationID: orgID}, &args)

	lower := strings.ToLower(clause)
	for _, fragment := range []string{
		"cu.id = l.created_by",
		"au.id = l.assigned_to",
		"organization_id = $1",
	} {
		if !strings.Contains(lower, fragment) {
			t.Errorf("admin clause missing fragment %q: %q", fragment, clause)
		}
	}
	if strings.Contains(lower, "admin_processed") {
		t.Fatal("admin visibility must not be restricted by admin_processed")
	}
	if len(args) != 1 || args[0] != orgID {
		t.Fatalf("admin clause must bind the organization id once, got %v", args)
	}
}

func TestScopeClauseSuperadminIsUnrestricted(t *testing.T) {
	args := make([]interface{}, 0)

	clause := scopeClause(domain.Scope{Kind: domain.ScopeAll}, &args)

	if clause != "true" {
		t.Fatalf("superadmin clause = %q, want unrestricted", clause)
	}
	if len(args) != 0 {
		t.Fatalf("superadmin clause must bind no args, got %v", args)
	}
}

func TestAssigneeQueryJoinsOrganizationType(t *testing.T) {
	query := strings.ToLower(assigneeQuery)

	for _, fragment := range []string{
		"left join organizations o on o.id = u.organization_id",
		"o.type",
	} {
		if !strings.Contains(query, fragment) {
			t.Errorf("assignee query missing fragment %q", fragment)
		}
	}
}

func TestAssigneeEligibility(t *testing.T) {
	cases := []struct {
		role, orgType string
		want          bool
	}{
		{"agent2", "main", true},
		{"agent2", "client", false},
		{"agent1", "main", false},
		{"admin", "main", false},
		{"agent2", "", false},
	}

	for _, tc := range cases {
		a := Assignee{Role: tc.role, OrgType: tc.orgType}
		if got := a.Eligible(); got != tc.want {
			t.Errorf("Eligible(role=%s, orgType=%s) = %v, want %v", tc.role, tc.orgType, got, tc.want)
		}
	}
}

func TestStatsSelectCoversCategoriesStatusesAndWindows(t *testing.T) {
	query := strings.ToLower(statsSelect)

	for _, fragment := range []string{
		"l.category = 'hot'",
		"l.category = 'warm'",
		"l.category = 'cold'",
		"l.status = 'interested'",
		"l.status = 'successful'",
		"l.status = 'follow-up'",
		"date_trunc('day', now())",
		"interval '7 days'",
		"date_trunc('month', now())",
	} {
		if !strings.Contains(query, fragment) {
			t.Errorf("stats query missing fragment %q", fragment)
		}
	}
}

func TestConversionRate(t *testing.T) {
	cases := []struct {
		successful, total int
		want              float64
	}{
		{0, 0, 0},
		{0, 10, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{5, 5, 100},
	}

	for _, tc := range cases {
		if got := ConversionRate(tc.successful, tc.total); got != tc.want {
			t.Errorf("ConversionRate(%d, %d) = %v, want %v", tc.successful, tc.total, got, tc.want)
		}
	}
}
