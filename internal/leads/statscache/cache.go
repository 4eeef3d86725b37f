// Package statscache caches dashboard stats snapshots in Redis with a short
// TTL. The dashboard polls every few seconds; the cache keeps that load off
// the aggregate query. Stale reads inside the TTL window are acceptable.
package statscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 10 * time.Second

type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func New(client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl, log: log}
}

// NewFromURL connects a Redis client from a redis:// URL and verifies the
// connection before returning.
func NewFromURL(ctx context.Context, redisURL string, ttl time.Duration, log *logger.Logger) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return New(client, ttl, log), nil
}

func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Get returns the cached snapshot for the scope, or false on a miss. Redis
// failures degrade to a miss; the caller recomputes from the database.
func (c *Cache) Get(ctx context.Context, scope domain.Scope) (repository.Stats, bool) {
	data, err := c.client.Get(ctx, key(scope)).Bytes()
	if err != nil {
		if err != redis.Nil && c.log != nil {
			c.log.Warn("stats cache read failed", "error", err)
		}
		return repository.Stats{}, false
	}

	var stats repository.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return repository.Stats{}, false
	}
	return stats, true
}

// Set stores the snapshot under the scope's key. Best effort; failures are
// logged and dropped.
func (c *Cache) Set(ctx context.Context, scope domain.Scope, stats repository.Stats) {
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key(scope), data, c.ttl).Err(); err != nil && c.log != nil {
		c.log.Warn("stats cache write failed", "error", err)
	}
}

// key derives a cache key from the scope. Creator-bound scopes key on the
// actor, organization scopes on the organization; shared scopes collapse to
// a single entry.
func key(scope domain.Scope) string {
	switch scope.Kind {
	case domain.ScopeCreatorUnprocessed:
		return fmt.Sprintf("leads:stats:creator:%s", scope.ActorID)
	case domain.ScopeOrganization:
		return fmt.Sprintf("leads:stats:org:%s", scope.OrganizationID)
	case domain.ScopeUnprocessed:
		return "leads:stats:unprocessed"
	default:
		return "leads:stats:all"
	}
}
