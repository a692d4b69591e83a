// Package service implements registration, login, and profile lookup.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/audit"
	"taskboard/internal/identity/models"
	"taskboard/internal/identity/store"
	"taskboard/internal/platform/metrics"
	dErrors "taskboard/pkg/domain-errors"
	"taskboard/pkg/platform/sentinel"
)

// emailPattern matches the grammar the original system accepted. Kept
// deliberately identical so previously registered addresses stay valid.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const bcryptCost = 10

// TokenIssuer mints a signed bearer credential for a user.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Service holds the identity business logic. Transport concerns stay in the
// handler; persistence stays behind the UserStore interface.
type Service struct {
	users   store.UserStore
	tokens  TokenIssuer
	metrics *metrics.Metrics
	auditor *audit.Publisher
	tracer  trace.Tracer
}

func New(users store.UserStore, tokens TokenIssuer, m *metrics.Metrics, auditor *audit.Publisher) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		metrics: m,
		auditor: auditor,
		tracer:  otel.Tracer("taskboard/identity"),
	}
}

// Register validates the payload, hashes the password, and persists the user.
// A duplicate email yields CodeConflict without revealing the stored record.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Register")
	defer span.End()

	if err := validateRegistration(req); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return models.User{}, dErrors.Wrap(dErrors.CodeInternal, "failed to hash password", err)
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return models.User{}, dErrors.New(dErrors.CodeConflict, "User already exists")
		}
		return models.User{}, dErrors.Wrap(dErrors.CodeInternal, "failed to create user", err)
	}

	s.metrics.IncrementUsersRegistered()
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionUserRegistered,
		UserID:  user.ID,
		Subject: user.Email,
	})
	return user, nil
}

// Login verifies credentials and issues a token with the fixed TTL. Unknown
// email and wrong password produce the same error so callers cannot enumerate
// accounts.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (models.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.loginFailed(ctx, email, "unknown email")
			return models.LoginResult{}, invalidCredentials()
		}
		return models.LoginResult{}, dErrors.Wrap(dErrors.CodeInternal, "failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.loginFailed(ctx, email, "wrong password")
		return models.LoginResult{}, invalidCredentials()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.LoginResult{}, dErrors.Wrap(dErrors.CodeInternal, "failed to issue token", err)
	}

	s.metrics.IncrementLogin("success")
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionLoginSucceeded,
		UserID:  user.ID,
		Subject: user.Email,
	})
	return models.LoginResult{
		Token: token,
		User:  models.Profile{Username: user.Username, Email: user.Email},
	}, nil
}

// Profile returns the public projection for the authenticated user. A token
// can outlive its user (the gate does no per-request lookup), so a valid
// token may still resolve to no record here.
func (s *Service) Profile(ctx context.Context, userID string) (models.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Profile")
	defer span.End()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Profile{}, dErrors.New(dErrors.CodeNotFound, "User not found")
		}
		return models.Profile{}, dErrors.Wrap(dErrors.CodeInternal, "failed to look up user", err)
	}
	return models.Profile{Username: user.Username, Email: user.Email}, nil
}

func (s *Service) loginFailed(ctx context.Context, email, reason string) {
	s.metrics.IncrementLogin("failure")
	s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionLoginFailed,
		Subject: email,
		Reason:  reason,
	})
}

func invalidCredentials() error {
	return dErrors.New(dErrors.CodeBadRequest, "Invalid credentials")
}

func validateRegistration(req models.RegisterRequest) error {
	if len(strings.TrimSpace(req.Username)) < 3 {
		return dErrors.New(dErrors.CodeBadRequest, "Username must be at least 3 characters")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return dErrors.New(dErrors.CodeBadRequest, "Email is required")
	}
	if !emailPattern.MatchString(email) {
		return dErrors.New(dErrors.CodeBadRequest, "Please enter a valid email")
	}
	if len(req.Password) < 6 {
		return dErrors.New(dErrors.CodeBadRequest, "Password must be at least 6 characters")
	}
	return nil
}
