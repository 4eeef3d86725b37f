package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store that mirrors the repository's scope and
// merge semantics closely enough to exercise the service rules.
type fakeStore struct {
	mu       sync.Mutex
	leads    map[uuid.UUID]repository.Lead
	users    map[uuid.UUID]repository.Assignee
	userOrgs map[uuid.UUID]uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leads:    make(map[uuid.UUID]repository.Lead),
		users:    make(map[uuid.UUID]repository.Assignee),
		userOrgs: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeStore) addUser(id uuid.UUID, name, role, orgType string, orgID uuid.UUID) {
	f.users[id] = repository.Assignee{ID: id, Name: name, Role: role, OrgType: orgType}
	f.userOrgs[id] = orgID
}

func (f *fakeStore) inScope(l repository.Lead, scope domain.Scope) bool {
	switch scope.Kind {
	case domain.ScopeCreatorUnprocessed:
		return l.CreatedBy == scope.ActorID && !l.AdminProcessed
	case domain.ScopeUnprocessed:
		return !l.AdminProcessed
	case domain.ScopeOrganization:
		if f.userOrgs[l.CreatedBy] == scope.OrganizationID {
			return true
		}
		return l.AssignedTo != nil && f.userOrgs[*l.AssignedTo] == scope.OrganizationID
	default:
		return true
	}
}

func (f *fakeStore) Create(ctx context.Context, p repository.CreateLeadParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	lead := repository.Lead{
		ID:        uuid.New(),
		FirstName: p.FirstName, LastName: p.LastName, Email: p.Email,
		Phone: p.Phone, AltPhone: p.AltPhone, City: p.City, State: p.State,
		Pincode: p.Pincode, Occupation: p.Occupation, Company: p.Company,
		MonthlyIncome: p.MonthlyIncome, LoanAmount: p.LoanAmount, PropertyType: p.PropertyType,
		Notes:                p.Notes,
		CompletionPercentage: p.CompletionPercentage,
		Category:             p.Category,
		Priority:             p.Priority,
		Status:               "new",
		CreatedBy:            p.CreatedBy,
		UpdatedBy:            p.CreatedBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeStore) GetScoped(ctx context.Context, id uuid.UUID, scope domain.Scope) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok || !f.inScope(lead, scope) {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) List(ctx context.Context, scope domain.Scope, filter repository.ListFilter) ([]repository.Lead, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matches := make([]repository.Lead, 0)
	for _, lead := range f.leads {
		if !f.inScope(lead, scope) {
			continue
		}
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		if filter.Category != "" && lead.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(lead.FirstName+" "+lead.LastName), strings.ToLower(filter.Search)) {
			continue
		}
		matches = append(matches, lead)
	}
	return matches, len(matches), nil
}

func (f *fakeStore) UpdateScoped(ctx context.Context, id uuid.UUID, scope domain.Scope, patch repository.UpdatePatch) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok || !f.inScope(lead, scope) {
		return repository.Lead{}, repository.ErrNotFound
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&lead.FirstName, patch.FirstName)
	set(&lead.LastName, patch.LastName)
	set(&lead.Email, patch.Email)
	set(&lead.Phone, patch.Phone)
	set(&lead.AltPhone, patch.AltPhone)
	set(&lead.City, patch.City)
	set(&lead.State, patch.State)
	set(&lead.Pincode, patch.Pincode)
	set(&lead.Occupation, patch.Occupation)
	set(&lead.Company, patch.Company)
	set(&lead.MonthlyIncome, patch.MonthlyIncome)
	set(&lead.LoanAmount, patch.LoanAmount)
	set(&lead.PropertyType, patch.PropertyType)
	set(&lead.Notes, patch.Notes)
	set(&lead.Status, patch.Status)
	set(&lead.Qualification, patch.Qualification)
	set(&lead.ContactStatus, patch.ContactStatus)
	set(&lead.CallOutcome, patch.CallOutcome)
	set(&lead.Engagement, patch.Engagement)
	set(&lead.DisqualifyReason, patch.DisqualifyReason)
	set(&lead.ProgressStatus, patch.ProgressStatus)

	if patch.ConversionValue != nil {
		v := *patch.ConversionValue
		lead.ConversionValue = &v
	}

	lead.CompletionPercentage = patch.CompletionPercentage
	lead.Category = patch.Category
	lead.Priority = patch.Priority
	lead.UpdatedBy = patch.UpdatedBy
	lead.UpdatedAt = time.Now()

	if patch.StampConverted && lead.ConvertedAt == nil {
		now := time.Now()
		lead.ConvertedAt = &now
	}
	if patch.MarkAdminProcessed && !lead.AdminProcessed {
		now := time.Now()
		lead.AdminProcessed = true
		lead.AdminProcessedAt = &now
	}

	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) AssignScoped(ctx context.Context, id uuid.UUID, scope domain.Scope, params repository.AssignParams) (repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok || !f.inScope(lead, scope) {
		return repository.Lead{}, repository.ErrNotFound
	}
	if lead.AssignedTo != nil {
		return repository.Lead{}, repository.ErrAlreadyAssigned
	}

	now := time.Now()
	to := params.AssignedTo
	by := params.AssignedBy
	lead.AssignedTo = &to
	lead.AssignedBy = &by
	lead.AssignmentNotes = params.Notes
	lead.AssignedAt = &now
	lead.AdminProcessed = true
	lead.AdminProcessedAt = &now
	lead.UpdatedBy = by
	lead.UpdatedAt = now

	f.leads[id] = lead
	return lead, nil
}

func (f *fakeStore) DeleteScoped(ctx context.Context, id uuid.UUID, scope domain.Scope) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	lead, ok := f.leads[id]
	if !ok || !f.inScope(lead, scope) {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeStore) EligibleAssignee(ctx context.Context, agentID uuid.UUID) (repository.Assignee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.users[agentID]
	if !ok {
		return repository.Assignee{}, repository.ErrNoEligibleAgent
	}
	return a, nil
}

func (f *fakeStore) ActorDisplayName(ctx context.Context, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID].Name, nil
}

func (f *fakeStore) Stats(ctx context.Context, scope domain.Scope) (repository.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var s repository.Stats
	for _, lead := range f.leads {
		if !f.inScope(lead, scope) {
			continue
		}
		s.TotalLeads++
		switch lead.Category {
		case "hot":
			s.HotLeads++
		case "warm":
			s.WarmLeads++
		default:
			s.ColdLeads++
		}
		switch lead.Status {
		case "interested":
			s.InterestedLeads++
		case "successful":
			s.SuccessfulLeads++
		case "follow-up":
			s.FollowUpLeads++
		}
	}
	s.ConversionRate = repository.ConversionRate(s.SuccessfulLeads, s.TotalLeads)
	return s, nil
}

// captureBus records published events synchronously.
type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *captureBus) Subscribe(eventName string, handler events.Handler) {}

func (b *captureBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.events))
	for _, e := range b.events {
		names = append(names, e.EventName())
	}
	return names
}

type fixture struct {
	store *fakeStore
	bus   *captureBus
	svc   *Service

	agent1     domain.Actor
	agent2     domain.Actor
	admin      domain.Actor
	superadmin domain.Actor

	mainOrg   uuid.UUID
	clientOrg uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newFakeStore()
	bus := &captureBus{}

	f := &fixture{
		store:     store,
		bus:       bus,
		svc:       New(store, bus, nil),
		mainOrg:   uuid.New(),
		clientOrg: uuid.New(),
	}

	f.agent1 = domain.Actor{ID: uuid.New(), Role: domain.RoleAgent1, OrganizationID: f.clientOrg}
	f.agent2 = domain.Actor{ID: uuid.New(), Role: domain.RoleAgent2, OrganizationID: f.mainOrg}
	f.admin = domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin, OrganizationID: f.clientOrg}
	f.superadmin = domain.Actor{ID: uuid.New(), Role: domain.RoleSuperAdmin}

	store.addUser(f.agent1.ID, "Intake One", "agent1", "client", f.clientOrg)
	store.addUser(f.agent2.ID, "Follow-up Two", "agent2", "main", f.mainOrg)
	store.addUser(f.admin.ID, "Org Admin", "admin", "client", f.clientOrg)
	store.addUser(f.superadmin.ID, "Root", "superadmin", "", uuid.Nil)

	return f
}

func (f *fixture) createLead(t *testing.T, req transport.CreateLeadRequest) transport.LeadResponse {
	t.Helper()
	lead, err := f.svc.Create(context.Background(), f.agent1, req)
	require.NoError(t, err)
	return lead
}

func fullCreateRequest() transport.CreateLeadRequest {
	return transport.CreateLeadRequest{
		FirstName: "Asha", LastName: "Verma", Email: "asha@example.com",
		Phone: "+919876543210", AltPhone: "+919876543211",
		City: "Pune", State: "MH", Pincode: "411001",
		Occupation: "salaried", Company: "Acme",
		MonthlyIncome: "85000", LoanAmount: "2500000", PropertyType: "apartment",
	}
}

func TestCreateComputesScoreServerSide(t *testing.T) {
	f := newFixture(t)

	lead := f.createLead(t, fullCreateRequest())

	assert.Equal(t, 100, lead.CompletionPercentage)
	assert.Equal(t, "hot", lead.Category)
	assert.Equal(t, "high", lead.Priority)
	assert.Equal(t, "new", lead.Status)
	assert.Equal(t, f.agent1.ID, lead.CreatedBy)
	assert.Contains(t, f.bus.names(), "leads.lead.created")
}

func TestCreatePartialProfileIsWarm(t *testing.T) {
	f := newFixture(t)

	lead := f.createLead(t, transport.CreateLeadRequest{
		FirstName: "Asha", LastName: "Verma", Email: "asha@example.com",
		Phone: "+919876543210", City: "Pune", State: "MH", Pincode: "411001",
	})

	assert.Equal(t, 54, lead.CompletionPercentage)
	assert.Equal(t, "warm", lead.Category)
	assert.Equal(t, "medium", lead.Priority)
}

func TestCreateForbiddenForAgent2(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.agent2, fullCreateRequest())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestUpdateForbiddenForAgent1(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, fullCreateRequest())

	_, err := f.svc.Update(context.Background(), f.agent1, lead.ID, transport.UpdateLeadRequest{
		Status: transport.OptionalString{Value: "interested", Set: true},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestUpdateRejectsAllInvalidEnumsAtOnce(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, fullCreateRequest())

	_, err := f.svc.Update(context.Background(), f.agent2, lead.ID, transport.UpdateLeadRequest{
		Status:        transport.OptionalString{Value: "archived", Set: true},
		Qualification: transport.OptionalString{Value: "maybe", Set: true},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	details, ok := err.(*apperr.Error).Details.([]domain.FieldError)
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func TestConvertedAtSetExactlyOnce(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, fullCreateRequest())
	ctx := context.Background()

	value := 500.0
	first, err := f.svc.Update(ctx, f.agent2, lead.ID, transport.UpdateLeadRequest{
		Status:          transport.OptionalString{Value: "successful", Set: true},
		ConversionValue: transport.OptionalFloat64{Value: value, Set: true},
	})
	require.NoError(t, err)
	require.NotNil(t, first.ConvertedAt)
	require.NotNil(t, first.ConversionValue)
	assert.Equal(t, value, *first.ConversionValue)

	// Bounce through follow-up and back to successful.
	_, err = f.svc.Update(ctx, f.agent2, lead.ID, transport.UpdateLeadRequest{
		Status: transport.OptionalString{Value: "follow-up", Set: true},
	})
	require.NoError(t, err)

	second, err := f.svc.Update(ctx, f.agent2, lead.ID, transport.UpdateLeadRequest{
		Status: transport.OptionalString{Value: "successful", Set: true},
	})
	require.NoError(t, err)
	require.NotNil(t, second.ConvertedAt)
	assert.Equal(t, *first.ConvertedAt, *second.ConvertedAt)
}

func TestDisjointPatchesUnion(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, transport.CreateLeadRequest{FirstName: "Asha", Phone: "+919876543210"})
	ctx := context.Background()

	_, err := f.svc.Update(ctx, f.agent2, lead.ID, transport.UpdateLeadRequest{
		City: transport.OptionalString{Value: "Pune", Set: true},
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.agent2, lead.ID, transport.UpdateLeadRequest{
		Occupation: transport.OptionalString{Value: "salaried", Set: true},
	})
	require.NoError(t, err)

	// Field-level merge: the second patch must not clobber the first.
	assert.Equal(t, "Pune", updated.City)
	assert.Equal(t, "salaried", updated.Occupation)
	assert.Equal(t, "Asha", updated.FirstName)
}

func TestUpdateRecomputesScoreOverMergedProfile(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, transport.CreateLeadRequest{FirstName: "Asha", Phone: "+919876543210"})
	require.Equal(t, "cold", lead.Category)

	updated, err := f.svc.Update(context.Background(), f.agent2, lead.ID, transport.UpdateLeadRequest{
		LastName:      transport.OptionalString{Value: "Verma", Set: true},
		Email:         transport.OptionalString{Value: "asha@example.com", Set: true},
		City:          transport.OptionalString{Value: "Pune", Set: true},
		State:         transport.OptionalString{Value: "MH", Set: true},
		Pincode:       transport.OptionalString{Value: "411001", Set: true},
	})
	require.NoError(t, err)

	// 7 of 13 fields now filled.
	assert.Equal(t, 54, updated.CompletionPercentage)
	assert.Equal(t, "warm", updated.Category)
	assert.Equal(t, "medium", updated.Priority)
}

func TestAdminUpdateHidesLeadFromAgents(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, fullCreateRequest())
	ctx := context.Background()

	// Visible to both agents before the admin touches it.
	_, err := f.svc.Get(ctx, f.agent1, lead.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, f.agent2, lead.ID)
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.admin, lead.ID, transport.UpdateLeadRequest{
		Status: transport.OptionalString{Value: "interested", Set: true},
	})
	require.NoError(t, err)
	assert.True(t, updated.AdminProcessed)
	require.NotNil(t, updated.AdminProcessedAt)

	// One-way gate: both agent roles now see not-found.
	_, err = f.svc.Get(ctx, f.agent1, lead.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.svc.Get(ctx, f.agent2, lead.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	list, err := f.svc.List(ctx, f.agent2, transport.ListLeadsQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Leads)

	// The admin still sees it.
	_, err = f.svc.Get(ctx, f.admin, lead.ID)
	require.NoError(t, err)
}

func TestAgent1SeesOnlyOwnLeads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherAgent1 := domain.Actor{ID: uuid.New(), Role: domain.RoleAgent1, OrganizationID: f.clientOrg}
	f.store.addUser(otherAgent1.ID, "Intake Other", "agent1", "client", f.clientOrg)

	mine := f.createLead(t, fullCreateRequest())
	theirs, err := f.svc.Create(ctx, otherAgent1, fullCreateRequest())
	require.NoError(t, err)

	list, err := f.svc.List(ctx, f.agent1, transport.ListLeadsQuery{})
	require.NoError(t, err)
	require.Len(t, list.Leads, 1)
	assert.Equal(t, mine.ID, list.Leads[0].ID)

	// Direct fetch of a foreign lead is not-found, not forbidden.
	_, err = f.svc.Get(ctx, f.agent1, theirs.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAssignHappyPathAndIdempotencyGuard(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, fullCreateRequest())
	ctx := context.Background()

	assigned, err := f.svc.Assign(ctx, f.admin, lead.ID, transport.AssignLeadRequest{
		AgentID: f.agent2.ID,
		Notes:   "priority customer",
	})
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, f.agent2.ID, *assigned.AssignedTo)
	require.NotNil(t, assigned.AssignedBy)
	assert.Equal(t, f.admin.ID, *assigned.AssignedBy)
	assert.Equal(t, "priority customer", assigned.AssignmentNotes)
	assert.NotNil(t, assigned.AssignedAt)
	assert.Contains(t, f.bus.names(), "leads.lead.assigned")

	// A second hand-off to a different agent is rejected, not overwritten.
	otherAgent2 := uuid.New()
	f.store.addUser(otherAgent2, "Follow-up Three", "agent2", "main", f.mainOrg)

	_, err = f.svc.Assign(ctx, f.admin, lead.ID, transport.AssignLeadRequest{AgentID: otherAgent2})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	current, err := f.svc.Get(ctx, f.admin, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, f.agent2.ID, *current.AssignedTo)
}

func TestAssignRejectsIneligibleTargets(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, fullCreateRequest())
	ctx := context.Background()

	// agent2 in a client organization is not an eligible target.
	clientAgent2 := uuid.New()
	f.store.addUser(clientAgent2, "Client Agent", "agent2", "client", f.clientOrg)

	_, err := f.svc.Assign(ctx, f.admin, lead.ID, transport.AssignLeadRequest{AgentID: clientAgent2})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	// Unknown target user is not-found.
	_, err = f.svc.Assign(ctx, f.admin, lead.ID, transport.AssignLeadRequest{AgentID: uuid.New()})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// agent2 may not assign at all.
	_, err = f.svc.Assign(ctx, f.agent2, lead.ID, transport.AssignLeadRequest{AgentID: f.agent2.ID})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestDeleteIsAdminOnlyAndPublishes(t *testing.T) {
	f := newFixture(t)
	lead := f.createLead(t, fullCreateRequest())
	ctx := context.Background()

	err := f.svc.Delete(ctx, f.agent2, lead.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	require.NoError(t, f.svc.Delete(ctx, f.admin, lead.ID))
	assert.Contains(t, f.bus.names(), "leads.lead.deleted")

	_, err = f.svc.Get(ctx, f.admin, lead.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestStatsAggregatesScopedSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createLead(t, fullCreateRequest())
	second := f.createLead(t, fullCreateRequest())
	f.createLead(t, transport.CreateLeadRequest{FirstName: "Solo", Phone: "+919876543212"})

	_, err := f.svc.Update(ctx, f.agent2, second.ID, transport.UpdateLeadRequest{
		Status: transport.OptionalString{Value: "successful", Set: true},
	})
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx, f.superadmin)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalLeads)
	assert.Equal(t, 2, stats.HotLeads)
	assert.Equal(t, 1, stats.ColdLeads)
	assert.Equal(t, 1, stats.SuccessfulLeads)
	assert.Equal(t, 33.3, stats.ConversionRate)
}

func TestListRejectsUnknownFilterValues(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(context.Background(), f.agent2, transport.ListLeadsQuery{Status: "archived"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.List(context.Background(), f.agent2, transport.ListLeadsQuery{Category: "boiling"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
