// Package repository persists organizations and their users.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Organization is a tenant. Type is "main" for the managing organization
// whose agent2 users take assignments, "client" for intake organizations.
type Organization struct {
	ID        uuid.UUID
	Name      string
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Role           string
	OrganizationID *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *Repository) CreateOrganization(ctx context.Context, name, orgType string) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		INSERT INTO organizations (name, type)
		VALUES ($1, $2)
		RETURNING id, name, type, created_at, updated_at
	`, name, orgType).Scan(&org.ID, &org.Name, &org.Type, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return Organization{}, err
	}
	return org, nil
}

func (r *Repository) GetOrganization(ctx context.Context, id uuid.UUID) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, type, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, id).Scan(&org.ID, &org.Name, &org.Type, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	if err != nil {
		return Organization{}, err
	}
	return org, nil
}

func (r *Repository) ListOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, type, created_at, updated_at
		FROM organizations
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]Organization, 0)
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Type, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

type CreateUserParams struct {
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	OrganizationID *uuid.UUID
}

func (r *Repository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, organization_id)
		VALUES ($1, lower($2), $3, $4, $5)
		RETURNING id, name, email, role, organization_id, created_at, updated_at
	`, params.Name, params.Email, params.PasswordHash, params.Role, params.OrganizationID).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.OrganizationID,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrDuplicateEmail
		}
		return User{}, err
	}
	return user, nil
}

// ListUsers returns users, restricted to one organization when orgID is set.
func (r *Repository) ListUsers(ctx context.Context, orgID *uuid.UUID) ([]User, error) {
	query := `
		SELECT id, name, email, role, organization_id, created_at, updated_at
		FROM users
	`
	args := []interface{}{}
	if orgID != nil {
		query += ` WHERE organization_id = $1`
		args = append(args, *orgID)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Role, &user.OrganizationID,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
