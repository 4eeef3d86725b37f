package service

import (
	"context"
	"testing"
	"time"

	"leadflow_backend/internal/auth/password"
	"leadflow_backend/internal/auth/repository"
	"leadflow_backend/internal/auth/transport"
	"leadflow_backend/platform/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byEmail map[string]repository.User
	byID    map[uuid.UUID]repository.User
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (repository.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

type testConfig struct {
	secret string
	ttl    time.Duration
}

func (c testConfig) GetJWTAccessSecret() string       { return c.secret }
func (c testConfig) GetAccessTokenTTL() time.Duration { return c.ttl }

func newTestService(t *testing.T, users ...repository.User) (*Service, testConfig) {
	t.Helper()

	store := &fakeUserStore{
		byEmail: make(map[string]repository.User),
		byID:    make(map[uuid.UUID]repository.User),
	}
	for _, u := range users {
		store.byEmail[u.Email] = u
		store.byID[u.ID] = u
	}

	cfg := testConfig{secret: "test-secret", ttl: 15 * time.Minute}
	return New(store, cfg, nil), cfg
}

func testUser(t *testing.T, email, plain, role string, orgID *uuid.UUID) repository.User {
	t.Helper()

	hash, err := password.Hash(plain)
	require.NoError(t, err)

	return repository.User{
		ID:             uuid.New(),
		Name:           "Test User",
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		OrganizationID: orgID,
	}
}

func TestLoginIssuesAccessTokenWithClaims(t *testing.T) {
	orgID := uuid.New()
	user := testUser(t, "agent@example.com", "s3cret-pass", "agent2", &orgID)
	svc, cfg := newTestService(t, user)

	resp, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "agent@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "agent2", resp.User.Role)

	parsed, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, orgID.String(), claims["tenant_id"])

	roles, ok := claims["roles"].([]interface{})
	require.True(t, ok)
	require.Len(t, roles, 1)
	assert.Equal(t, "agent2", roles[0])
}

func TestLoginOmitsTenantForSuperadmin(t *testing.T) {
	user := testUser(t, "root@example.com", "s3cret-pass", "superadmin", nil)
	svc, cfg := newTestService(t, user)

	resp, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "root@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	parsed, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.secret), nil
	})
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	_, present := claims["tenant_id"]
	assert.False(t, present)
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	user := testUser(t, "agent@example.com", "s3cret-pass", "agent1", nil)
	svc, _ := newTestService(t, user)
	ctx := context.Background()

	_, wrongPass := svc.Login(ctx, transport.LoginRequest{Email: "agent@example.com", Password: "wrong-pass"})
	_, unknownEmail := svc.Login(ctx, transport.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})

	require.Error(t, wrongPass)
	require.Error(t, unknownEmail)
	assert.True(t, apperr.Is(wrongPass, apperr.KindUnauthorized))
	assert.True(t, apperr.Is(unknownEmail, apperr.KindUnauthorized))
	// Same message either way: no account enumeration.
	assert.Equal(t, wrongPass.Error(), unknownEmail.Error())
}

func TestMe(t *testing.T) {
	user := testUser(t, "agent@example.com", "s3cret-pass", "agent1", nil)
	svc, _ := newTestService(t, user)

	got, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
