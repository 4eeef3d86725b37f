// Package handler exposes the identity REST surface.
package handler

import (
	"net/http"

	"leadflow_backend/internal/identity/service"
	"leadflow_backend/internal/identity/transport"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/organizations", h.CreateOrganization)
	rg.GET("/organizations", h.ListOrganizations)
	rg.POST("/users", h.CreateUser)
	rg.GET("/users", h.ListUsers)
}

func actorFrom(c *gin.Context) (domain.Actor, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return domain.Actor{}, false
	}

	roles := id.Roles()
	if len(roles) == 0 {
		c.AbortWithStatusJSON(http.StatusForbidden, httpkit.ErrorResponse{Error: "no role assigned"})
		return domain.Actor{}, false
	}

	role, ok := domain.ParseRole(roles[0])
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, httpkit.ErrorResponse{Error: "unknown role"})
		return domain.Actor{}, false
	}

	return domain.Actor{
		ID:             id.UserID(),
		Role:           role,
		OrganizationID: id.OrganizationID(),
	}, true
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req transport.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.BindError(c, err)
		return
	}

	org, err := h.svc.CreateOrganization(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, org)
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	orgs, err := h.svc.ListOrganizations(c.Request.Context(), actor)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"organizations": orgs})
}

func (h *Handler) CreateUser(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.BindError(c, err)
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	users, err := h.svc.ListUsers(c.Request.Context(), actor)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"users": users})
}
