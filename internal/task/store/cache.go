package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"taskboard/internal/platform/metrics"
	"taskboard/internal/task/models"
)

// Redis key prefix for cached task lists.
const taskListKeyPrefix = "tasks:owner:"

// CachedStore is a read-through cache over a TaskStore. The full task set for
// an owner is what every list request re-reads, so that is the unit cached:
// one serialized slice per owner, dropped on any write by that owner. Cache
// failures degrade to the inner store; they are logged, never surfaced.
type CachedStore struct {
	inner   TaskStore
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCached wraps inner with a Redis-backed list cache.
func NewCached(inner TaskStore, client *redis.Client, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

func (s *CachedStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	key := taskListKeyPrefix + ownerID

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var tasks []models.Task
		if jsonErr := json.Unmarshal(raw, &tasks); jsonErr == nil {
			s.metrics.IncrementCacheRequest("hit")
			return tasks, nil
		}
		// Unreadable entry: fall through to the store and rewrite it.
	case !errors.Is(err, redis.Nil):
		s.logger.WarnContext(ctx, "task cache read failed", "error", err)
	}
	s.metrics.IncrementCacheRequest("miss")

	tasks, err := s.inner.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if raw, jsonErr := json.Marshal(tasks); jsonErr == nil {
		if setErr := s.client.Set(ctx, key, raw, s.ttl).Err(); setErr != nil {
			s.logger.WarnContext(ctx, "task cache write failed", "error", setErr)
		}
	}
	return tasks, nil
}

func (s *CachedStore) Create(ctx context.Context, task models.Task) error {
	if err := s.inner.Create(ctx, task); err != nil {
		return err
	}
	s.invalidate(ctx, task.OwnerID)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id, ownerID string) (models.Task, error) {
	return s.inner.Get(ctx, id, ownerID)
}

func (s *CachedStore) Update(ctx context.Context, task models.Task) (models.Task, error) {
	updated, err := s.inner.Update(ctx, task)
	if err != nil {
		return models.Task{}, err
	}
	s.invalidate(ctx, task.OwnerID)
	return updated, nil
}

func (s *CachedStore) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.inner.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context, ownerID string) {
	if err := s.client.Del(ctx, taskListKeyPrefix+ownerID).Err(); err != nil {
		s.logger.WarnContext(ctx, "task cache invalidation failed",
			"error", err,
			"owner_id", ownerID,
		)
	}
}
