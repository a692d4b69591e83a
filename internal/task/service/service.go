// Package service implements the owner-scoped task operations. Every store
// call below carries the caller's identity; the service never fetches a task
// by ID alone.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"taskboard/internal/audit"
	"taskboard/internal/platform/metrics"
	"taskboard/internal/task/models"
	"taskboard/internal/task/store"
	dErrors "taskboard/pkg/domain-errors"
	"taskboard/pkg/platform/sentinel"
)

// Service holds the task business logic.
type Service struct {
	tasks   store.TaskStore
	metrics *metrics.Metrics
	auditor *audit.Publisher
	tracer  trace.Tracer
}

func New(tasks store.TaskStore, m *metrics.Metrics, auditor *audit.Publisher) *Service {
	return &Service{
		tasks:   tasks,
		metrics: m,
		auditor: auditor,
		tracer:  otel.Tracer("taskboard/task"),
	}
}

// Create validates the payload, applies defaults, stamps the owner, and
// persists the task.
func (s *Service) Create(ctx context.Context, ownerID string, req models.CreateTaskRequest) (models.Task, error) {
	ctx, span := s.tracer.Start(ctx, "task.Create")
	defer span.End()

	if strings.TrimSpace(req.Title) == "" {
		return models.Task{}, dErrors.New(dErrors.CodeBadRequest, "Title is required")
	}
	if req.DueDate == "" {
		return models.Task{}, dErrors.New(dErrors.CodeBadRequest, "Due date is required")
	}
	if err := validateDueDate(req.DueDate); err != nil {
		return models.Task{}, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return models.Task{}, dErrors.New(dErrors.CodeBadRequest, "Invalid priority")
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return models.Task{}, dErrors.New(dErrors.CodeBadRequest, "Invalid status")
	}

	now := time.Now()
	task := models.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priority,
		Status:      status,
		Category:    req.Category,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return models.Task{}, dErrors.Wrap(dErrors.CodeInternal, "failed to create task", err)
	}

	s.metrics.IncrementTaskOperation("create")
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionTaskCreated,
		UserID:  ownerID,
		Subject: task.ID,
	})
	return task, nil
}

// List returns the caller's full task set, unordered. Ordering and filtering
// are the view engine's concern.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	ctx, span := s.tracer.Start(ctx, "task.List")
	defer span.End()

	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list tasks", err)
	}
	s.metrics.IncrementTaskOperation("list")
	return tasks, nil
}

// Update applies the non-nil fields of req to the task matching
// (id, ownerID). A miss is reported as not found whether the task does not
// exist or belongs to someone else.
func (s *Service) Update(ctx context.Context, ownerID, id string, req models.UpdateTaskRequest) (models.Task, error) {
	ctx, span := s.tracer.Start(ctx, "task.Update")
	defer span.End()

	existing, err := s.tasks.Get(ctx, id, ownerID)
	if err != nil {
		return models.Task{}, notFoundOrInternal(err)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return models.Task{}, dErrors.New(dErrors.CodeBadRequest, "Title is required")
		}
		existing.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.DueDate != nil {
		if err := validateDueDate(*req.DueDate); err != nil {
			return models.Task{}, err
		}
		existing.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return models.Task{}, dErrors.New(dErrors.CodeBadRequest, "Invalid priority")
		}
		existing.Priority = *req.Priority
	}
	if req.Status != nil {
		// Direct edits may set any status, bypassing the cycle ring.
		if !req.Status.Valid() {
			return models.Task{}, dErrors.New(dErrors.CodeBadRequest, "Invalid status")
		}
		existing.Status = *req.Status
	}
	if req.Category != nil {
		existing.Category = *req.Category
	}
	existing.UpdatedAt = time.Now()

	updated, err := s.tasks.Update(ctx, existing)
	if err != nil {
		return models.Task{}, notFoundOrInternal(err)
	}

	s.metrics.IncrementTaskOperation("update")
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionTaskUpdated,
		UserID:  ownerID,
		Subject: updated.ID,
	})
	return updated, nil
}

// Cycle advances the task's status one step along the ring
// pending -> in_progress -> completed -> pending.
func (s *Service) Cycle(ctx context.Context, ownerID, id string) (models.Task, error) {
	ctx, span := s.tracer.Start(ctx, "task.Cycle")
	defer span.End()

	existing, err := s.tasks.Get(ctx, id, ownerID)
	if err != nil {
		return models.Task{}, notFoundOrInternal(err)
	}

	existing.Status = existing.Status.Next()
	existing.UpdatedAt = time.Now()

	updated, err := s.tasks.Update(ctx, existing)
	if err != nil {
		return models.Task{}, notFoundOrInternal(err)
	}

	s.metrics.IncrementTaskOperation("update")
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionTaskUpdated,
		UserID:  ownerID,
		Subject: updated.ID,
	})
	return updated, nil
}

// Delete removes the task matching (id, ownerID).
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	ctx, span := s.tracer.Start(ctx, "task.Delete")
	defer span.End()

	if err := s.tasks.Delete(ctx, id, ownerID); err != nil {
		return notFoundOrInternal(err)
	}

	s.metrics.IncrementTaskOperation("delete")
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionTaskDeleted,
		UserID:  ownerID,
		Subject: id,
	})
	return nil
}

func notFoundOrInternal(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Task not found")
	}
	return dErrors.Wrap(dErrors.CodeInternal, "task store failure", err)
}

func validateDueDate(value string) error {
	if _, err := time.ParseInLocation(models.DueDateLayout, value, time.Local); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "Due date must be a yyyy-mm-dd calendar date")
	}
	return nil
}
