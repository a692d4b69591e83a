package store

import (
	"context"
	"sync"

	"taskboard/internal/task/models"
	"taskboard/pkg/platform/sentinel"
)

// InMemory keeps tasks in a map for development and tests. Concurrent writes
// to the same task resolve last-write-wins, matching the persistence
// contract of the real store.
type InMemory struct {
	mu    sync.RWMutex
	tasks map[string]models.Task // keyed by task ID
	order []string               // insertion order, so listings are deterministic
}

func NewInMemory() *InMemory {
	return &InMemory{tasks: make(map[string]models.Task)}
}

func (s *InMemory) Create(_ context.Context, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; !exists {
		s.order = append(s.order, task.ID)
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *InMemory) ListByOwner(_ context.Context, ownerID string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, id := range s.order {
		if task, ok := s.tasks[id]; ok && task.OwnerID == ownerID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *InMemory) Get(_ context.Context, id, ownerID string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return models.Task{}, sentinel.ErrNotFound
	}
	return task, nil
}

func (s *InMemory) Update(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return models.Task{}, sentinel.ErrNotFound
	}
	s.tasks[task.ID] = task
	return task, nil
}

func (s *InMemory) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[id]
	if !ok || existing.OwnerID != ownerID {
		return sentinel.ErrNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
