package store

import (
	"context"
	"sync"

	"taskboard/internal/identity/models"
	"taskboard/pkg/platform/sentinel"
)

// InMemory keeps users in a map for development and tests. It intentionally
// favors clarity over performance.
type InMemory struct {
	mu      sync.RWMutex
	users   map[string]models.User // keyed by ID
	byEmail map[string]string      // lowercase email -> ID
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (s *InMemory) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return sentinel.ErrConflict
	}
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return models.User{}, sentinel.ErrNotFound
	}
	return s.users[id], nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return models.User{}, sentinel.ErrNotFound
}
