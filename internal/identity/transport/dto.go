// Package transport defines the request/response DTOs for the identity API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Type string `json:"type" binding:"required,oneof=main client"`
}

type OrganizationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateUserRequest struct {
	Name           string     `json:"name" binding:"required,max=200"`
	Email          string     `json:"email" binding:"required,email"`
	Password       string     `json:"password" binding:"required,min=8"`
	Role           string     `json:"role" binding:"required,oneof=agent1 agent2 admin superadmin"`
	OrganizationID *uuid.UUID `json:"organizationId"`
}

type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
