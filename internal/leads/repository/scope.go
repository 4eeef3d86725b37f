package repository

import (
	"fmt"

	"leadflow_backend/internal/leads/domain"
)

// Visibility predicate fragments. %d placeholders are filled with positional
// argument indexes by scopeClause. Out-of-scope rows are simply absent from
// results, so callers observe not-found rather than forbidden.
const (
	scopeCreatorUnprocessedClause = "l.created_by = $%d AND l.admin_processed = false"

	scopeUnprocessedClause = "l.admin_processed = false"

	scopeOrganizationClause = "(EXISTS (SELECT 1 FROM users cu WHERE cu.id = l.created_by AND cu.organization_id = $%d)" +
		" OR EXISTS (SELECT 1 FROM users au WHERE au.id = l.assigned_to AND au.organization_id = $%d))"
)

// scopeClause renders the visibility scope as a SQL predicate over the lead
// alias "l", appending any bind values to args. It returns "true" for the
// unrestricted scope so callers can always AND it in.
func scopeClause(scope domain.Scope, args *[]interface{}) string {
	switch scope.Kind {
	case domain.ScopeCreatorUnprocessed:
		*args = append(*args, scope.ActorID)
		return fmt.Sprintf(scopeCreatorUnprocessedClause, len(*args))
	case domain.ScopeUnprocessed:
		return scopeUnprocessedClause
	case domain.ScopeOrganization:
		*args = append(*args, scope.OrganizationID)
		idx := len(*args)
		return fmt.Sprintf(scopeOrganizationClause, idx, idx)
	default:
		return "true"
	}
}
