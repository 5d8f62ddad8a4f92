package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tdnguyen/profile-service/internal/auth"
	"github.com/tdnguyen/profile-service/internal/core/domain"
	"github.com/tdnguyen/profile-service/middleware"
)

// ProfileService owns the business logic for the profile API: login,
// registration, profile read/update, password change, and account deletion.
type ProfileService struct {
	repo       domain.UserRepository
	tokens     *auth.TokenIssuer
	policy     auth.PasswordPolicy
	bcryptCost int
}

// NewProfileService creates a profile service with its collaborators
// injected: the user store, the token issuer, and the password policy.
func NewProfileService(repo domain.UserRepository, tokens *auth.TokenIssuer, policy auth.PasswordPolicy, bcryptCost int) *ProfileService {
	return &ProfileService{
		repo:       repo,
		tokens:     tokens,
		policy:     policy,
		bcryptCost: bcryptCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account after checking the password policy.
func (s *ProfileService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := s.policy.Check(req.Password); err != nil {
		span.SetAttributes(attribute.Bool("user.created", false))
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, normalizeEmail(req.Email), req.FullName, hash)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create user %q: %w", req.Email, err)
	}

	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Bool("user.created", true),
	)
	return user, nil
}

// Login verifies credentials and issues an access token. A missing account
// and a wrong password both return ErrInvalidCredentials so callers cannot
// probe which one it was.
func (s *ProfileService) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			span.SetAttributes(attribute.Bool("login.ok", false))
			return "", domain.ErrInvalidCredentials
		}
		span.RecordError(err)
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		span.SetAttributes(attribute.Bool("login.ok", false))
		return "", domain.ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		span.SetAttributes(attribute.Bool("login.ok", false))
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("issue token: %w", err)
	}

	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Bool("login.ok", true),
	)
	return token, nil
}

// GetProfile retrieves the authenticated user's profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID int) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("user.id", userID),
	))
	defer span.End()

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		span.SetAttributes(attribute.Bool("profile.found", false))
		return nil, fmt.Errorf("get profile for user %d: %w", userID, err)
	}

	span.SetAttributes(attribute.Bool("profile.found", true))
	return user, nil
}

// UpdateProfile applies a partial update to mutable profile fields. Fields
// left nil in the request stay untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int, req domain.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("user.id", userID),
	))
	defer span.End()

	email := req.Email
	if email != nil {
		normalized := normalizeEmail(*email)
		email = &normalized
	}

	user, err := s.repo.UpdateProfile(ctx, userID, email, req.PhoneNumber)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update profile for user %d: %w", userID, err)
	}

	span.SetAttributes(attribute.Bool("profile.updated", true))
	return user, nil
}

// ChangePassword verifies the current password, checks the new one against
// the policy, and replaces the stored hash. The replacement is a single
// statement so concurrent logins observe either the old or the new hash,
// never anything in between.
func (s *ProfileService) ChangePassword(ctx context.Context, userID int, req domain.ChangePasswordRequest) error {
	ctx, span := middleware.StartSpan(ctx, "profile.change_password", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("user.id", userID),
	))
	defer span.End()

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user %d: %w", userID, err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		span.SetAttributes(attribute.Bool("password.changed", false))
		return domain.ErrInvalidCredentials
	}

	if err := s.policy.Check(req.NewPassword); err != nil {
		span.SetAttributes(attribute.Bool("password.changed", false))
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		span.RecordError(err)
		return fmt.Errorf("store password hash for user %d: %w", userID, err)
	}

	span.SetAttributes(attribute.Bool("password.changed", true))
	return nil
}

// DeleteAccount irreversibly deletes the caller's account. Once it returns,
// logins with the old credentials fail and old tokens stop resolving.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID int) error {
	ctx, span := middleware.StartSpan(ctx, "profile.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("user.id", userID),
	))
	defer span.End()

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete user %d: %w", userID, err)
	}

	span.AddEvent("user.deleted")
	return nil
}
