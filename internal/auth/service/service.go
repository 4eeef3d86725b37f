// Package service implements authentication: credential verification and
// access token issuance.
package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/auth/password"
	"leadflow_backend/internal/auth/repository"
	"leadflow_backend/internal/auth/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenType = "access"

// UserStore is the credential lookup the service depends on.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (repository.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (repository.User, error)
}

type Service struct {
	repo UserStore
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo UserStore, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies credentials and returns a signed access token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logAuth("login", req.Email, false, "unknown email")
			return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
		}
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load user", err)
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.logAuth("login", req.Email, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	token, err := s.signAccessToken(user)
	if err != nil {
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}

	s.logAuth("login", req.Email, true, "")

	return transport.LoginResponse{
		AccessToken: token,
		User:        toUserResponse(user),
	}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.UserResponse{}, apperr.NotFound("user not found")
		}
		return transport.UserResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load user", err)
	}
	return toUserResponse(user), nil
}

func (s *Service) signAccessToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"type":  accessTokenType,
		"roles": []string{user.Role},
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}
	if user.OrganizationID != nil {
		claims["tenant_id"] = user.OrganizationID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func (s *Service) logAuth(event, email string, success bool, reason string) {
	if s.log != nil {
		s.log.AuthEvent(event, email, success, reason)
	}
}

func toUserResponse(user repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	}
}
