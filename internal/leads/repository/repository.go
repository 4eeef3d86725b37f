// Package repository persists leads with hand-written SQL. Every query that
// touches a lead carries the caller's visibility scope; there is no unscoped
// read or write path.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("lead not found")
	ErrAlreadyAssigned = errors.New("lead already assigned")
	ErrNoEligibleAgent = errors.New("agent not found or not eligible")
	ErrEmptyPatch      = errors.New("empty update patch")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is the persisted lead row.
type Lead struct {
	ID            uuid.UUID
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	AltPhone      string
	City          string
	State         string
	Pincode       string
	Occupation    string
	Company       string
	MonthlyIncome string
	LoanAmount    string
	PropertyType  string
	Notes         string

	CompletionPercentage int
	Category             string
	Priority             string

	Status           string
	Qualification    string
	ContactStatus    string
	CallOutcome      string
	Engagement       string
	DisqualifyReason string
	ProgressStatus   string

	AdminProcessed   bool
	AdminProcessedAt *time.Time

	AssignedTo      *uuid.UUID
	AssignedBy      *uuid.UUID
	AssignmentNotes string
	AssignedAt      *time.Time

	ConversionValue *float64
	ConvertedAt     *time.Time

	CreatedBy uuid.UUID
	UpdatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile projects the scoreable fields for the scoring engine.
func (l Lead) Profile() domain.Profile {
	return domain.Profile{
		FirstName:     l.FirstName,
		LastName:      l.LastName,
		Email:         l.Email,
		Phone:         l.Phone,
		AltPhone:      l.AltPhone,
		City:          l.City,
		State:         l.State,
		Pincode:       l.Pincode,
		Occupation:    l.Occupation,
		Company:       l.Company,
		MonthlyIncome: l.MonthlyIncome,
		LoanAmount:    l.LoanAmount,
		PropertyType:  l.PropertyType,
	}
}

const leadColumns = `l.id, l.first_name, l.last_name, l.email, l.phone, l.alt_phone,
	l.city, l.state, l.pincode, l.occupation, l.company, l.monthly_income, l.loan_amount, l.property_type, l.notes,
	l.completion_percentage, l.category, l.priority,
	l.status, l.lead_qualification, l.contact_status, l.call_outcome, l.engagement_status, l.disqualify_reason, l.progress_status,
	l.admin_processed, l.admin_processed_at,
	l.assigned_to, l.assigned_by, l.assignment_notes, l.assigned_at,
	l.conversion_value, l.converted_at,
	l.created_by, l.updated_by, l.created_at, l.updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.AltPhone,
		&l.City, &l.State, &l.Pincode, &l.Occupation, &l.Company, &l.MonthlyIncome, &l.LoanAmount, &l.PropertyType, &l.Notes,
		&l.CompletionPercentage, &l.Category, &l.Priority,
		&l.Status, &l.Qualification, &l.ContactStatus, &l.CallOutcome, &l.Engagement, &l.DisqualifyReason, &l.ProgressStatus,
		&l.AdminProcessed, &l.AdminProcessedAt,
		&l.AssignedTo, &l.AssignedBy, &l.AssignmentNotes, &l.AssignedAt,
		&l.ConversionValue, &l.ConvertedAt,
		&l.CreatedBy, &l.UpdatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

// CreateLeadParams carries a new lead. Score fields are server-computed by
// the caller before persistence.
type CreateLeadParams struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	AltPhone      string
	City          string
	State         string
	Pincode       string
	Occupation    string
	Company       string
	MonthlyIncome string
	LoanAmount    string
	PropertyType  string
	Notes         string

	CompletionPercentage int
	Category             string
	Priority             string

	CreatedBy uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			first_name, last_name, email, phone, alt_phone,
			city, state, pincode, occupation, company, monthly_income, loan_amount, property_type, notes,
			completion_percentage, category, priority,
			created_by, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		RETURNING `+leadColumns,
		params.FirstName, params.LastName, params.Email, params.Phone, params.AltPhone,
		params.City, params.State, params.Pincode, params.Occupation, params.Company,
		params.MonthlyIncome, params.LoanAmount, params.PropertyType, params.Notes,
		params.CompletionPercentage, params.Category, params.Priority,
		params.CreatedBy,
	)
	return scanLead(row)
}

func (r *Repository) GetScoped(ctx context.Context, id uuid.UUID, scope domain.Scope) (Lead, error) {
	args := []interface{}{id}
	clause := scopeClause(scope, &args)

	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		WHERE l.id = $1 AND `+clause,
		args...,
	)
	return scanLead(row)
}

// ListFilter carries the supported list filters; zero values mean "no filter".
type ListFilter struct {
	Status   string
	Category string
	Search   string
	Offset   int
	Limit    int
}

func (r *Repository) List(ctx context.Context, scope domain.Scope, filter ListFilter) ([]Lead, int, error) {
	args := make([]interface{}, 0, 6)
	where := []string{scopeClause(scope, &args)}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("l.category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		idx := len(args)
		where = append(where, fmt.Sprintf(
			"(l.first_name ILIKE $%d OR l.last_name ILIKE $%d OR l.phone ILIKE $%d OR l.email ILIKE $%d)",
			idx, idx, idx, idx))
	}

	condition := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads l WHERE "+condition, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	limitIdx := len(args)
	args = append(args, filter.Offset)
	offsetIdx := len(args)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM leads l
		WHERE %s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d`, leadColumns, condition, limitIdx, offsetIdx),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

// UpdatePatch is a column-level merge patch. Nil fields are left untouched
// by the UPDATE, so concurrent disjoint patches both survive.
type UpdatePatch struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Phone         *string
	AltPhone      *string
	City          *string
	State         *string
	Pincode       *string
	Occupation    *string
	Company       *string
	MonthlyIncome *string
	LoanAmount    *string
	PropertyType  *string
	Notes         *string

	Status           *string
	Qualification    *string
	ContactStatus    *string
	CallOutcome      *string
	Engagement       *string
	DisqualifyReason *string
	ProgressStatus   *string

	ConversionValue *float64

	// Score fields are recomputed by the service on every update and are
	// always present.
	CompletionPercentage int
	Category             string
	Priority             string

	// StampConverted sets converted_at if and only if it is still unset;
	// the first successful transition wins.
	StampConverted bool

	// MarkAdminProcessed flips the one-way admin_processed gate.
	MarkAdminProcessed bool

	UpdatedBy uuid.UUID
}

func (r *Repository) UpdateScoped(ctx context.Context, id uuid.UUID, scope domain.Scope, patch UpdatePatch) (Lead, error) {
	args := []interface{}{id}
	clause := scopeClause(scope, &args)

	set := make([]string, 0, 24)
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addIfSet := func(column string, value *string) {
		if value != nil {
			add(column, *value)
		}
	}

	addIfSet("first_name", patch.FirstName)
	addIfSet("last_name", patch.LastName)
	addIfSet("email", patch.Email)
	addIfSet("phone", patch.Phone)
	addIfSet("alt_phone", patch.AltPhone)
	addIfSet("city", patch.City)
	addIfSet("state", patch.State)
	addIfSet("pincode", patch.Pincode)
	addIfSet("occupation", patch.Occupation)
	addIfSet("company", patch.Company)
	addIfSet("monthly_income", patch.MonthlyIncome)
	addIfSet("loan_amount", patch.LoanAmount)
	addIfSet("property_type", patch.PropertyType)
	addIfSet("notes", patch.Notes)

	addIfSet("status", patch.Status)
	addIfSet("lead_qualification", patch.Qualification)
	addIfSet("contact_status", patch.ContactStatus)
	addIfSet("call_outcome", patch.CallOutcome)
	addIfSet("engagement_status", patch.Engagement)
	addIfSet("disqualify_reason", patch.DisqualifyReason)
	addIfSet("progress_status", patch.ProgressStatus)

	if patch.ConversionValue != nil {
		add("conversion_value", *patch.ConversionValue)
	}

	add("completion_percentage", patch.CompletionPercentage)
	add("category", patch.Category)
	add("priority", patch.Priority)
	add("updated_by", patch.UpdatedBy)

	if patch.StampConverted {
		set = append(set, "converted_at = COALESCE(converted_at, now())")
	}
	if patch.MarkAdminProcessed {
		set = append(set, "admin_processed = true")
		set = append(set, "admin_processed_at = COALESCE(admin_processed_at, now())")
	}
	set = append(set, "updated_at = now()")

	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads l
		SET %s
		WHERE l.id = $1 AND %s
		RETURNING %s`, strings.Join(set, ", "), clause, leadColumns),
		args...,
	)
	return scanLead(row)
}

// AssignParams carries the one-shot cross-tenant hand-off.
type AssignParams struct {
	AssignedTo uuid.UUID
	AssignedBy uuid.UUID
	Notes      string
}

// AssignScoped performs the hand-off atomically: the WHERE guard on
// assigned_to makes a concurrent second assignment lose rather than
// overwrite. ErrAlreadyAssigned distinguishes the loser from a lead that
// is genuinely out of scope.
func (r *Repository) AssignScoped(ctx context.Context, id uuid.UUID, scope domain.Scope, params AssignParams) (Lead, error) {
	args := []interface{}{id, params.AssignedTo, params.AssignedBy, params.Notes}
	clause := scopeClause(scope, &args)

	row := r.pool.QueryRow(ctx, `
		UPDATE leads l
		SET assigned_to = $2,
			assigned_by = $3,
			assignment_notes = $4,
			assigned_at = now(),
			updated_by = $3,
			updated_at = now(),
			admin_processed = true,
			admin_processed_at = COALESCE(admin_processed_at, now())
		WHERE l.id = $1 AND l.assigned_to IS NULL AND `+clause+`
		RETURNING `+leadColumns,
		args...,
	)

	lead, err := scanLead(row)
	if errors.Is(err, ErrNotFound) {
		// Distinguish "already assigned" from "not visible".
		if _, getErr := r.GetScoped(ctx, id, scope); getErr == nil {
			return Lead{}, ErrAlreadyAssigned
		}
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) DeleteScoped(ctx context.Context, id uuid.UUID, scope domain.Scope) error {
	args := []interface{}{id}
	clause := scopeClause(scope, &args)

	tag, err := r.pool.Exec(ctx, "DELETE FROM leads l WHERE l.id = $1 AND "+clause, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Assignee is a candidate assignment target. Eligibility is decided by the
// service so a missing user and an ineligible one surface differently.
type Assignee struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Role    string
	OrgName string
	OrgType string
}

// Eligible reports whether the user may receive cross-tenant assignments:
// a follow-up agent belonging to a main-type organization.
func (a Assignee) Eligible() bool {
	return a.Role == "agent2" && a.OrgType == "main"
}

const assigneeQuery = `
	SELECT u.id, u.name, u.email, u.role, COALESCE(o.name, ''), COALESCE(o.type, '')
	FROM users u
	LEFT JOIN organizations o ON o.id = u.organization_id
	WHERE u.id = $1`

// EligibleAssignee resolves the assignment target user with their
// organization type. ErrNoEligibleAgent means the user does not exist.
func (r *Repository) EligibleAssignee(ctx context.Context, agentID uuid.UUID) (Assignee, error) {
	var a Assignee
	err := r.pool.QueryRow(ctx, assigneeQuery, agentID).Scan(
		&a.ID, &a.Name, &a.Email, &a.Role, &a.OrgName, &a.OrgType,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignee{}, ErrNoEligibleAgent
	}
	return a, err
}

// LeadDisplayName resolves a lead's display name without visibility
// scoping. Used for notification content only, never for API responses.
func (r *Repository) LeadDisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx,
		`SELECT trim(first_name || ' ' || last_name) FROM leads WHERE id = $1`, id,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}

const actorNameQuery = `SELECT name FROM users WHERE id = $1`

// ActorDisplayName resolves a user's display name for event payloads.
// Unknown actors resolve to the empty string.
func (r *Repository) ActorDisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, actorNameQuery, userID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return name, err
}
