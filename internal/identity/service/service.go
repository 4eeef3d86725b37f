// Package service implements organization and user administration.
// Superadmins manage organizations and any user; organization admins manage
// agents inside their own organization only.
package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/auth/password"
	"leadflow_backend/internal/identity/repository"
	"leadflow_backend/internal/identity/transport"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// Store is the persistence contract the identity service depends on.
type Store interface {
	CreateOrganization(ctx context.Context, name, orgType string) (repository.Organization, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (repository.Organization, error)
	ListOrganizations(ctx context.Context) ([]repository.Organization, error)
	CreateUser(ctx context.Context, params repository.CreateUserParams) (repository.User, error)
	ListUsers(ctx context.Context, orgID *uuid.UUID) ([]repository.User, error)
}

type Service struct {
	repo Store
}

func New(repo Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOrganization(ctx context.Context, actor domain.Actor, req transport.CreateOrganizationRequest) (transport.OrganizationResponse, error) {
	if actor.Role != domain.RoleSuperAdmin {
		return transport.OrganizationResponse{}, apperr.Forbidden("only superadmin may create organizations")
	}

	org, err := s.repo.CreateOrganization(ctx, req.Name, req.Type)
	if err != nil {
		return transport.OrganizationResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create organization", err)
	}
	return toOrganizationResponse(org), nil
}

func (s *Service) ListOrganizations(ctx context.Context, actor domain.Actor) ([]transport.OrganizationResponse, error) {
	if actor.Role != domain.RoleSuperAdmin {
		return nil, apperr.Forbidden("only superadmin may list organizations")
	}

	orgs, err := s.repo.ListOrganizations(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list organizations", err)
	}

	out := make([]transport.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, toOrganizationResponse(org))
	}
	return out, nil
}

// CreateUser provisions a user. Admins may only create agents inside their
// own organization; superadmins may create anyone anywhere.
func (s *Service) CreateUser(ctx context.Context, actor domain.Actor, req transport.CreateUserRequest) (transport.UserResponse, error) {
	if !actor.Role.IsAdministrative() {
		return transport.UserResponse{}, apperr.Forbidden("role may not create users")
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return transport.UserResponse{}, apperr.Validation("unknown role")
	}

	orgID := req.OrganizationID
	if actor.Role == domain.RoleAdmin {
		if role != domain.RoleAgent1 && role != domain.RoleAgent2 {
			return transport.UserResponse{}, apperr.Forbidden("admin may only create agents")
		}
		own := actor.OrganizationID
		if orgID != nil && *orgID != own {
			return transport.UserResponse{}, apperr.Forbidden("admin may only create users in own organization")
		}
		orgID = &own
	}

	if role != domain.RoleSuperAdmin {
		if orgID == nil {
			return transport.UserResponse{}, apperr.Validation("organizationId is required for this role").
				WithDetails([]domain.FieldError{{Field: "organizationId", Message: "required"}})
		}
		if _, err := s.repo.GetOrganization(ctx, *orgID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return transport.UserResponse{}, apperr.NotFound("organization not found")
			}
			return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load organization", err)
		}
	} else {
		// Superadmins belong to no organization.
		orgID = nil
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           string(role),
		OrganizationID: orgID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return transport.UserResponse{}, apperr.Conflict("email already in use")
		}
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create user", err)
	}

	return toUserResponse(user), nil
}

// ListUsers returns all users for superadmins, own-organization users for
// admins.
func (s *Service) ListUsers(ctx context.Context, actor domain.Actor) ([]transport.UserResponse, error) {
	if !actor.Role.IsAdministrative() {
		return nil, apperr.Forbidden("role may not list users")
	}

	var orgID *uuid.UUID
	if actor.Role == domain.RoleAdmin {
		own := actor.OrganizationID
		orgID = &own
	}

	users, err := s.repo.ListUsers(ctx, orgID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list users", err)
	}

	out := make([]transport.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	return out, nil
}

func toOrganizationResponse(org repository.Organization) transport.OrganizationResponse {
	return transport.OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Type:      org.Type,
		CreatedAt: org.CreatedAt,
	}
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt,
	}
}
