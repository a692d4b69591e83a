// Package handler exposes registration, login, and profile over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	identityModel "taskboard/internal/identity/models"
	"taskboard/internal/platform/middleware"
	dErrors "taskboard/pkg/domain-errors"
	"taskboard/pkg/platform/httputil"
	"taskboard/pkg/requestcontext"
)

// Service defines the identity operations the handler needs.
type Service interface {
	Register(ctx context.Context, req identityModel.RegisterRequest) (identityModel.User, error)
	Login(ctx context.Context, req identityModel.LoginRequest) (identityModel.LoginResult, error)
	Profile(ctx context.Context, userID string) (identityModel.Profile, error)
}

// Handler handles identity endpoints.
type Handler struct {
	logger    *slog.Logger
	identity  Service
	validator middleware.TokenValidator
}

// New creates a new identity Handler.
func New(identity Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		identity:  identity,
		validator: validator,
	}
}

// Register mounts the identity routes. /register and /login are public;
// /profile sits behind the auth gate.
func (h *Handler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(h.validator, h.logger))
		protected.Get("/profile", h.handleProfile)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req identityModel.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if _, err := h.identity.Register(ctx, req); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to register user",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		} else {
			h.logger.WarnContext(ctx, "registration rejected",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "User created successfully",
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req identityModel.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.identity.Login(ctx, req)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "login failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID == "" {
		// Unreachable when RequireAuth is mounted; guards against miswiring.
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	profile, err := h.identity.Profile(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}
