// Package handler exposes the task CRUD, filtering, and summary endpoints.
// Every route is mounted behind the auth gate; the owner always comes from
// the request context, never from the payload.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskboard/internal/platform/middleware"
	"taskboard/internal/task/models"
	"taskboard/internal/task/view"
	dErrors "taskboard/pkg/domain-errors"
	"taskboard/pkg/platform/httputil"
	"taskboard/pkg/requestcontext"
)

// Service defines the task operations the handler needs.
type Service interface {
	Create(ctx context.Context, ownerID string, req models.CreateTaskRequest) (models.Task, error)
	List(ctx context.Context, ownerID string) ([]models.Task, error)
	Update(ctx context.Context, ownerID, id string, req models.UpdateTaskRequest) (models.Task, error)
	Cycle(ctx context.Context, ownerID, id string) (models.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Handler handles task endpoints.
type Handler struct {
	logger    *slog.Logger
	tasks     Service
	validator middleware.TokenValidator
}

// New creates a new task Handler.
func New(tasks Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		tasks:     tasks,
		validator: validator,
	}
}

// Register mounts the task routes behind RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(h.validator, h.logger))

		protected.Post("/tasks", h.handleCreate)
		protected.Get("/tasks", h.handleList)
		protected.Get("/tasks/summary", h.handleSummary)
		protected.Get("/tasks/categories", h.handleCategories)
		protected.Put("/tasks/{id}", h.handleUpdate)
		protected.Post("/tasks/{id}/cycle", h.handleCycle)
		protected.Delete("/tasks/{id}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	task, err := h.tasks.Create(ctx, ownerID, req)
	if err != nil {
		h.logFailure(ctx, "failed to create task", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, task)
}

// handleList returns the owner's tasks. With no query parameters the raw,
// unordered set comes back; any of priority, status, category, or due
// switches on the filter-and-sort view.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(ctx, ownerID)
	if err != nil {
		h.logFailure(ctx, "failed to list tasks", err)
		httputil.WriteError(w, err)
		return
	}

	query := r.URL.Query()
	criteria := view.Criteria{
		Priority: query.Get("priority"),
		Status:   query.Get("status"),
		Category: query.Get("category"),
		DueDate:  query.Get("due"),
	}
	filtered := query.Has("priority") || query.Has("status") ||
		query.Has("category") || query.Has("due")
	if filtered {
		tasks = view.Apply(ctx, tasks, criteria)
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(ctx, ownerID)
	if err != nil {
		h.logFailure(ctx, "failed to summarize tasks", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view.Summarize(ctx, tasks))
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(ctx, ownerID)
	if err != nil {
		h.logFailure(ctx, "failed to list categories", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, view.Categories(tasks))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	task, err := h.tasks.Update(ctx, ownerID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.logFailure(ctx, "failed to update task", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Cycle(ctx, ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(ctx, "failed to cycle task status", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(ctx, ownerID, chi.URLParam(r, "id")); err != nil {
		h.logFailure(ctx, "failed to delete task", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Task deleted successfully",
	})
}

// owner pulls the authenticated user from the context. An empty value is
// unreachable when RequireAuth is mounted; this guards against miswiring.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID == "" {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return userID, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
}
