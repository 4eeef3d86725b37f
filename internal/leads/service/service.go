// Package service orchestrates the lead lifecycle: every mutation passes
// through visibility scoping, the status rules, scoring, persistence and
// finally best-effort event publication, in that order.
package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/phone"

	"github.com/google/uuid"
)

// StatsCache is an optional short-TTL cache for dashboard snapshots.
type StatsCache interface {
	Get(ctx context.Context, scope domain.Scope) (repository.Stats, bool)
	Set(ctx context.Context, scope domain.Scope, stats repository.Stats)
}

type Service struct {
	repo  repository.Store
	bus   events.Bus
	cache StatsCache
	log   *logger.Logger
}

func New(repo repository.Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// SetStatsCache wires the optional dashboard stats cache.
func (s *Service) SetStatsCache(cache StatsCache) {
	s.cache = cache
}

// Create persists a new lead for an intake agent or administrator. The
// derived score fields are always computed server-side.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	if !actor.Role.Can(domain.CapCreateLead) {
		return transport.LeadResponse{}, apperr.Forbidden("role may not create leads")
	}

	req.Phone = phone.NormalizeE164(req.Phone)
	req.AltPhone = phone.NormalizeE164(req.AltPhone)

	score := domain.ComputeScore(domain.Profile{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		AltPhone:      req.AltPhone,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		Occupation:    req.Occupation,
		Company:       req.Company,
		MonthlyIncome: req.MonthlyIncome,
		LoanAmount:    req.LoanAmount,
		PropertyType:  req.PropertyType,
	})

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Email:                req.Email,
		Phone:                req.Phone,
		AltPhone:             req.AltPhone,
		City:                 req.City,
		State:                req.State,
		Pincode:              req.Pincode,
		Occupation:           req.Occupation,
		Company:              req.Company,
		MonthlyIncome:        req.MonthlyIncome,
		LoanAmount:           req.LoanAmount,
		PropertyType:         req.PropertyType,
		Notes:                req.Notes,
		CompletionPercentage: score.CompletionPercentage,
		Category:             string(score.Category),
		Priority:             string(score.Priority),
		CreatedBy:            actor.ID,
	})
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create lead", err)
	}

	s.publish(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		CreatedByID: actor.ID,
		ActorName:   s.actorName(ctx, actor.ID),
		Category:    lead.Category,
		Status:      lead.Status,
	})

	return toLeadResponse(lead), nil
}

// Get fetches a lead within the actor's visibility scope. Records outside
// scope read as not found.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetScoped(ctx, id, domain.ScopeFor(actor))
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}
	return toLeadResponse(lead), nil
}

// List returns a paginated, filtered lead list within the actor's scope.
func (s *Service) List(ctx context.Context, actor domain.Actor, query transport.ListLeadsQuery) (transport.ListLeadsResponse, error) {
	if query.Status != "" && !domain.ValidStatus(query.Status) {
		return transport.ListLeadsResponse{}, apperr.Validation("unknown status filter").
			WithDetails([]domain.FieldError{{Field: "status", Message: "value is not in the allowed set"}})
	}
	if query.Category != "" && !domain.ValidCategory(query.Category) {
		return transport.ListLeadsResponse{}, apperr.Validation("unknown category filter").
			WithDetails([]domain.FieldError{{Field: "category", Message: "value is not in the allowed set"}})
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}

	leads, total, err := s.repo.List(ctx, domain.ScopeFor(actor), repository.ListFilter{
		Status:   query.Status,
		Category: query.Category,
		Search:   query.Search,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return transport.ListLeadsResponse{}, apperr.Wrap(apperr.KindInternal, "failed to list leads", err)
	}

	resp := transport.ListLeadsResponse{
		Leads: make([]transport.LeadResponse, 0, len(leads)),
		Page:  page,
		Limit: limit,
		Total: total,
	}
	for _, lead := range leads {
		resp.Leads = append(resp.Leads, toLeadResponse(lead))
	}
	return resp, nil
}

// Update applies a merge patch through the status rules: enum validation,
// first-successful conversion stamping and the one-way admin-processed gate.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	if !actor.Role.Can(domain.CapUpdateLead) {
		return transport.LeadResponse{}, apperr.Forbidden("role may not update leads")
	}

	statusPatch := domain.StatusPatch{
		Status:           req.Status.Ptr(),
		Qualification:    req.Qualification.Ptr(),
		ContactStatus:    req.ContactStatus.Ptr(),
		CallOutcome:      req.CallOutcome.Ptr(),
		Engagement:       req.Engagement.Ptr(),
		DisqualifyReason: req.DisqualifyReason.Ptr(),
		ProgressStatus:   req.ProgressStatus.Ptr(),
	}
	if fieldErrs := domain.ValidateStatusPatch(statusPatch); len(fieldErrs) > 0 {
		return transport.LeadResponse{}, apperr.Validation("invalid lifecycle fields").WithDetails(fieldErrs)
	}

	scope := domain.ScopeFor(actor)
	current, err := s.repo.GetScoped(ctx, id, scope)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}

	if req.Phone.Set {
		req.Phone.Value = phone.NormalizeE164(req.Phone.Value)
	}
	if req.AltPhone.Set {
		req.AltPhone.Value = phone.NormalizeE164(req.AltPhone.Value)
	}

	// Recompute the score over the merged profile: patched fields layered
	// over the current row.
	merged := current.Profile()
	applyProfilePatch(&merged, req)
	score := domain.ComputeScore(merged)

	patch := repository.UpdatePatch{
		FirstName:     req.FirstName.Ptr(),
		LastName:      req.LastName.Ptr(),
		Email:         req.Email.Ptr(),
		Phone:         req.Phone.Ptr(),
		AltPhone:      req.AltPhone.Ptr(),
		City:          req.City.Ptr(),
		State:         req.State.Ptr(),
		Pincode:       req.Pincode.Ptr(),
		Occupation:    req.Occupation.Ptr(),
		Company:       req.Company.Ptr(),
		MonthlyIncome: req.MonthlyIncome.Ptr(),
		LoanAmount:    req.LoanAmount.Ptr(),
		PropertyType:  req.PropertyType.Ptr(),
		Notes:         req.Notes.Ptr(),

		Status:           statusPatch.Status,
		Qualification:    statusPatch.Qualification,
		ContactStatus:    statusPatch.ContactStatus,
		CallOutcome:      statusPatch.CallOutcome,
		Engagement:       statusPatch.Engagement,
		DisqualifyReason: statusPatch.DisqualifyReason,
		ProgressStatus:   statusPatch.ProgressStatus,

		ConversionValue: req.ConversionValue.Ptr(),

		CompletionPercentage: score.CompletionPercentage,
		Category:             string(score.Category),
		Priority:             string(score.Priority),

		StampConverted:     statusPatch.BecomesSuccessful(),
		MarkAdminProcessed: actor.Role.IsAdministrative(),
		UpdatedBy:          actor.ID,
	}

	lead, err := s.repo.UpdateScoped(ctx, id, scope, patch)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err)
	}

	s.publishUpdated(ctx, lead, actor)

	return toLeadResponse(lead), nil
}

// Assign hands the lead off to a follow-up agent in the managing
// organization. Assignment is one-shot; a second call is rejected.
func (s *Service) Assign(ctx context.Context, actor domain.Actor, id uuid.UUID, req transport.AssignLeadRequest) (transport.LeadResponse, error) {
	if !actor.Role.Can(domain.CapAssignLead) {
		return transport.LeadResponse{}, apperr.Forbidden("role may not assign leads")
	}

	assignee, err := s.repo.EligibleAssignee(ctx, req.AgentID)
	if err != nil {
		if errors.Is(err, repository.ErrNoEligibleAgent) {
			return transport.LeadResponse{}, apperr.NotFound("target agent not found")
		}
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to resolve target agent", err)
	}
	if !assignee.Eligible() {
		return transport.LeadResponse{}, apperr.Validation("target is not an eligible follow-up agent").
			WithDetails([]domain.FieldError{{Field: "agentId", Message: "must be an agent2 in a main organization"}})
	}

	lead, err := s.repo.AssignScoped(ctx, id, domain.ScopeFor(actor), repository.AssignParams{
		AssignedTo: req.AgentID,
		AssignedBy: actor.ID,
		Notes:      req.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyAssigned) {
			return transport.LeadResponse{}, apperr.Conflict("lead is already assigned")
		}
		return transport.LeadResponse{}, mapRepoError(err)
	}

	actorName := s.actorName(ctx, actor.ID)
	s.publish(ctx, events.LeadAssigned{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		AssignedToID: req.AgentID,
		AssignedByID: actor.ID,
		ActorName:    actorName,
		Notes:        req.Notes,
	})
	s.publishUpdated(ctx, lead, actor)

	return toLeadResponse(lead), nil
}

// Delete hard-deletes a lead within the actor's scope.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if !actor.Role.Can(domain.CapDeleteLead) {
		return apperr.Forbidden("role may not delete leads")
	}

	if err := s.repo.DeleteScoped(ctx, id, domain.ScopeFor(actor)); err != nil {
		return mapRepoError(err)
	}

	s.publish(ctx, events.LeadDeleted{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      id,
		DeletedByID: actor.ID,
		ActorName:   s.actorName(ctx, actor.ID),
	})

	return nil
}

func (s *Service) publishUpdated(ctx context.Context, lead repository.Lead, actor domain.Actor) {
	s.publish(ctx, events.LeadUpdated{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		UpdatedByID:    actor.ID,
		ActorName:      s.actorName(ctx, actor.ID),
		Category:       lead.Category,
		Status:         lead.Status,
		AdminProcessed: lead.AdminProcessed,
		AssignedToID:   lead.AssignedTo,
		CreatedByID:    lead.CreatedBy,
	})
}

// publish is fire-and-forget: event delivery never fails the request.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func (s *Service) actorName(ctx context.Context, actorID uuid.UUID) string {
	name, err := s.repo.ActorDisplayName(ctx, actorID)
	if err != nil {
		if s.log != nil {
			s.log.DatabaseError("actor display name", err)
		}
		return ""
	}
	return name
}

func applyProfilePatch(p *domain.Profile, req transport.UpdateLeadRequest) {
	set := func(dst *string, src transport.OptionalString) {
		if src.Set {
			*dst = src.Value
		}
	}

	set(&p.FirstName, req.FirstName)
	set(&p.LastName, req.LastName)
	set(&p.Email, req.Email)
	set(&p.Phone, req.Phone)
	set(&p.AltPhone, req.AltPhone)
	set(&p.City, req.City)
	set(&p.State, req.State)
	set(&p.Pincode, req.Pincode)
	set(&p.Occupation, req.Occupation)
	set(&p.Company, req.Company)
	set(&p.MonthlyIncome, req.MonthlyIncome)
	set(&p.LoanAmount, req.LoanAmount)
	set(&p.PropertyType, req.PropertyType)
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("lead not found")
	default:
		return apperr.Wrap(apperr.KindInternal, "storage failure", err)
	}
}
