//go:build integration

package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/task/models"
	"taskboard/internal/task/store"
	"taskboard/pkg/testutil/containers"
)

func newCachedStore(t *testing.T) (*store.CachedStore, *store.InMemory) {
	t.Helper()
	rc := containers.NewRedisContainer(t)
	inner := store.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return store.NewCached(inner, rc.Client, time.Minute, nil, logger), inner
}

func cachedTask(owner, title string) models.Task {
	now := time.Now()
	return models.Task{
		ID:        uuid.NewString(),
		Title:     title,
		DueDate:   "2024-06-01",
		Priority:  models.PriorityMedium,
		Status:    models.StatusPending,
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCachedStore_ReadThrough(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	cached, inner := newCachedStore(t)
	owner := uuid.NewString()

	task := cachedTask(owner, "cached")
	require.NoError(t, cached.Create(ctx, task))

	// First read populates the cache from the inner store.
	tasks, err := cached.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// Mutate the inner store behind the cache's back: the cached list is
	// served until something invalidates it.
	stale := cachedTask(owner, "behind-the-cache")
	require.NoError(t, inner.Create(ctx, stale))

	tasks, err = cached.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, tasks, 1, "second read should come from the cache")
}

func TestCachedStore_WritesInvalidate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	cached, _ := newCachedStore(t)
	owner := uuid.NewString()

	task := cachedTask(owner, "first")
	require.NoError(t, cached.Create(ctx, task))

	tasks, err := cached.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// A write through the cache drops the owner's entry.
	second := cachedTask(owner, "second")
	require.NoError(t, cached.Create(ctx, second))

	tasks, err = cached.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	// Delete invalidates as well.
	require.NoError(t, cached.Delete(ctx, task.ID, owner))
	tasks, err = cached.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "second", tasks[0].Title)
}
