package store

import (
	"context"

	"taskboard/internal/task/models"
)

// TaskStore persists tasks. Every read, update, and delete is scoped by
// (task ID AND owner ID); there is deliberately no lookup by ID alone, so a
// non-owner can neither see nor touch a task. A scoped miss returns
// sentinel.ErrNotFound whether the task is absent or owned by someone else.
type TaskStore interface {
	Create(ctx context.Context, task models.Task) error
	// ListByOwner returns the owner's full task set. Ordering is a
	// presentation concern handled by the view engine, not the store.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	// Update overwrites the stored record matching (task.ID, task.OwnerID).
	Update(ctx context.Context, task models.Task) (models.Task, error)
	// Get fetches the record matching (id, ownerID).
	Get(ctx context.Context, id, ownerID string) (models.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}
