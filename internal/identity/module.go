// Package identity provides the organization and user administration module.
package identity

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/identity/handler"
	"leadflow_backend/internal/identity/repository"
	"leadflow_backend/internal/identity/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the identity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the identity module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "identity"
}

// RegisterRoutes mounts identity routes. Authorization is enforced in the
// service layer per actor role.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/identity"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
