package v1

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tdnguyen/profile-service/internal/auth"
	"github.com/tdnguyen/profile-service/internal/core/domain"
	"github.com/tdnguyen/profile-service/internal/core/repository/memory"
)

func newTestService() *ProfileService {
	issuer := auth.NewTokenIssuer([]byte("service-test-secret"), time.Hour)
	// MinCost keeps the bcrypt work factor cheap in tests
	return NewProfileService(memory.NewUserRepository(), issuer, auth.DefaultPasswordPolicy(), bcrypt.MinCost)
}

func register(t *testing.T, s *ProfileService, email, password string) *domain.User {
	t.Helper()
	user, err := s.Register(context.Background(), domain.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Test User",
	})
	if err != nil {
		t.Fatalf("Register(%q): %v", email, err)
	}
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	user := register(t, s, "user@test.com", "Test123!")
	if user.PasswordHash == "Test123!" {
		t.Error("password stored in plaintext")
	}

	token, err := s.Login(ctx, domain.LoginRequest{Email: "user@test.com", Password: "Test123!"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("Login returned empty token")
	}

	// Email lookup is case-insensitive
	if _, err := s.Login(ctx, domain.LoginRequest{Email: "USER@test.com", Password: "Test123!"}); err != nil {
		t.Errorf("Login with different email case: %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	register(t, s, "user@test.com", "Test123!")

	// Unknown email and wrong password are indistinguishable to the caller
	if _, err := s.Login(ctx, domain.LoginRequest{Email: "nobody@test.com", Password: "Test123!"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login unknown email = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Login(ctx, domain.LoginRequest{Email: "user@test.com", Password: "WrongPassword"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	s := newTestService()

	_, err := s.Register(context.Background(), domain.RegisterRequest{
		Email:    "user@test.com",
		Password: "short",
		FullName: "Test User",
	})
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("Register weak password = %v, want ErrWeakPassword", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestService()

	register(t, s, "user@test.com", "Test123!")
	_, err := s.Register(context.Background(), domain.RegisterRequest{
		Email:    "User@Test.com",
		Password: "Test123!",
		FullName: "Other User",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("Register duplicate = %v, want ErrEmailTaken", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	user := register(t, s, "user@test.com", "Test123!")

	phone := "1234567890"
	updated, err := s.UpdateProfile(ctx, user.ID, domain.UpdateProfileRequest{PhoneNumber: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.PhoneNumber == nil || *updated.PhoneNumber != phone {
		t.Errorf("phone = %v, want %q", updated.PhoneNumber, phone)
	}
	if updated.Email != "user@test.com" {
		t.Errorf("email changed unexpectedly: %q", updated.Email)
	}

	// Email update is normalized
	email := "  New@Test.com "
	updated, err = s.UpdateProfile(ctx, user.ID, domain.UpdateProfileRequest{Email: &email})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Email != "new@test.com" {
		t.Errorf("email = %q, want new@test.com", updated.Email)
	}
	if updated.PhoneNumber == nil || *updated.PhoneNumber != phone {
		t.Errorf("phone lost on email update: %v", updated.PhoneNumber)
	}
}

func TestChangePassword(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	user := register(t, s, "user@test.com", "Test123!")

	err := s.ChangePassword(ctx, user.ID, domain.ChangePasswordRequest{
		CurrentPassword: "Test123!",
		NewPassword:     "NewPass123!",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := s.Login(ctx, domain.LoginRequest{Email: "user@test.com", Password: "Test123!"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password still works after change: %v", err)
	}
	if _, err := s.Login(ctx, domain.LoginRequest{Email: "user@test.com", Password: "NewPass123!"}); err != nil {
		t.Errorf("new password rejected after change: %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	user := register(t, s, "user@test.com", "Test123!")

	err := s.ChangePassword(ctx, user.ID, domain.ChangePasswordRequest{
		CurrentPassword: "WrongPassword",
		NewPassword:     "NewPass123!",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("ChangePassword wrong current = %v, want ErrInvalidCredentials", err)
	}

	// Stored password must be unchanged
	if _, err := s.Login(ctx, domain.LoginRequest{Email: "user@test.com", Password: "Test123!"}); err != nil {
		t.Errorf("original password stopped working: %v", err)
	}
}

func TestChangePasswordWeakNew(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	user := register(t, s, "user@test.com", "Test123!")

	err := s.ChangePassword(ctx, user.ID, domain.ChangePasswordRequest{
		CurrentPassword: "Test123!",
		NewPassword:     "weak",
	})
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("ChangePassword weak new = %v, want ErrWeakPassword", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	user := register(t, s, "user@test.com", "Test123!")

	if err := s.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, err := s.Login(ctx, domain.LoginRequest{Email: "user@test.com", Password: "Test123!"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("login after delete = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.GetProfile(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetProfile after delete = %v, want ErrUserNotFound", err)
	}
}
