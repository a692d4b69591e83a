package store

import (
	"context"

	"taskboard/internal/identity/models"
)

// UserStore persists user records. Implementations translate backend-specific
// failures into pkg/platform/sentinel errors.
type UserStore interface {
	// Create persists a new user. Returns sentinel.ErrConflict when the email
	// is already registered.
	Create(ctx context.Context, user models.User) error
	// FindByEmail looks a user up by email. Emails are stored lowercased, so
	// callers must lowercase the input first.
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}
