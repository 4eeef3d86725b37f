package statscache

import (
	"context"
	"testing"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, ttl, nil), mr
}

func TestGetMissThenHit(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	scope := domain.Scope{Kind: domain.ScopeAll}

	_, ok := cache.Get(ctx, scope)
	assert.False(t, ok)

	want := repository.Stats{TotalLeads: 12, HotLeads: 4, SuccessfulLeads: 3, ConversionRate: 25.0}
	cache.Set(ctx, scope, want)

	got, ok := cache.Get(ctx, scope)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t, 10*time.Second)
	ctx := context.Background()
	scope := domain.Scope{Kind: domain.ScopeUnprocessed}

	cache.Set(ctx, scope, repository.Stats{TotalLeads: 1})

	mr.FastForward(11 * time.Second)

	_, ok := cache.Get(ctx, scope)
	assert.False(t, ok)
}

func TestScopesDoNotCollide(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	actor := uuid.New()
	org := uuid.New()

	creatorScope := domain.Scope{Kind: domain.ScopeCreatorUnprocessed, ActorID: actor}
	orgScope := domain.Scope{Kind: domain.ScopeOrganization, OrganizationID: org}
	allScope := domain.Scope{Kind: domain.ScopeAll}

	cache.Set(ctx, creatorScope, repository.Stats{TotalLeads: 1})
	cache.Set(ctx, orgScope, repository.Stats{TotalLeads: 2})
	cache.Set(ctx, allScope, repository.Stats{TotalLeads: 3})

	got, ok := cache.Get(ctx, creatorScope)
	require.True(t, ok)
	assert.Equal(t, 1, got.TotalLeads)

	got, ok = cache.Get(ctx, orgScope)
	require.True(t, ok)
	assert.Equal(t, 2, got.TotalLeads)

	got, ok = cache.Get(ctx, allScope)
	require.True(t, ok)
	assert.Equal(t, 3, got.TotalLeads)

	// Same kind, different actor: separate entries.
	otherCreator := domain.Scope{Kind: domain.ScopeCreatorUnprocessed, ActorID: uuid.New()}
	_, ok = cache.Get(ctx, otherCreator)
	assert.False(t, ok)
}

func TestRedisDownDegradesToMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	scope := domain.Scope{Kind: domain.ScopeAll}

	cache.Set(ctx, scope, repository.Stats{TotalLeads: 5})
	mr.Close()

	_, ok := cache.Get(ctx, scope)
	assert.False(t, ok)

	// Writes must not panic either.
	cache.Set(ctx, scope, repository.Stats{TotalLeads: 6})
}
