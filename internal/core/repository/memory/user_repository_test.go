package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/tdnguyen/profile-service/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func TestCreateAndGetUser(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "User@Test.com", "Test User", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID == 0 {
		t.Error("CreateUser should assign an ID")
	}
	if created.Email != "user@test.com" {
		t.Errorf("Email = %q, want lowercased user@test.com", created.Email)
	}
	if !created.IsActive {
		t.Error("new users should be active")
	}
	if created.IsVerified {
		t.Error("new users should not be verified")
	}
	if created.PhoneNumber != nil {
		t.Error("new users should have no phone number")
	}

	byID, err := repo.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Email != created.Email {
		t.Errorf("GetUserByID email = %q, want %q", byID.Email, created.Email)
	}

	// Lookup is case-insensitive
	byEmail, err := repo.GetUserByEmail(ctx, "USER@test.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("GetUserByEmail ID = %d, want %d", byEmail.ID, created.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, "user@test.com", "One", "h1"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	_, err := repo.CreateUser(ctx, "USER@test.com", "Two", "h2")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("CreateUser duplicate = %v, want ErrEmailTaken", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "user@test.com", "Test User", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Phone only: email stays
	updated, err := repo.UpdateProfile(ctx, u.ID, nil, strPtr("1234567890"))
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Email != "user@test.com" {
		t.Errorf("email changed unexpectedly: %q", updated.Email)
	}
	if updated.PhoneNumber == nil || *updated.PhoneNumber != "1234567890" {
		t.Errorf("phone = %v, want 1234567890", updated.PhoneNumber)
	}

	// Email only: phone stays
	updated, err = repo.UpdateProfile(ctx, u.ID, strPtr("New@Test.com"), nil)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Email != "new@test.com" {
		t.Errorf("email = %q, want new@test.com", updated.Email)
	}
	if updated.PhoneNumber == nil || *updated.PhoneNumber != "1234567890" {
		t.Errorf("phone lost on email-only update: %v", updated.PhoneNumber)
	}
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, "a@test.com", "A", "h"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	b, err := repo.CreateUser(ctx, "b@test.com", "B", "h")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err = repo.UpdateProfile(ctx, b.ID, strPtr("a@test.com"), nil)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("UpdateProfile conflict = %v, want ErrEmailTaken", err)
	}

	// Updating to your own email is not a conflict
	if _, err := repo.UpdateProfile(ctx, b.ID, strPtr("b@test.com"), nil); err != nil {
		t.Errorf("UpdateProfile to own email: %v", err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "user@test.com", "Test User", "old-hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := repo.UpdatePasswordHash(ctx, u.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePasswordHash: %v", err)
	}

	got, err := repo.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash = %q, want new-hash", got.PasswordHash)
	}

	if err := repo.UpdatePasswordHash(ctx, 999, "x"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("UpdatePasswordHash missing user = %v, want ErrUserNotFound", err)
	}
}

func TestDeleteUser(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "user@test.com", "Test User", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := repo.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := repo.GetUserByID(ctx, u.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetUserByID after delete = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "user@test.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetUserByEmail after delete = %v, want ErrUserNotFound", err)
	}
	if err := repo.DeleteUser(ctx, u.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("second DeleteUser = %v, want ErrUserNotFound", err)
	}
}

func TestReturnedUsersAreCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "user@test.com", "Test User", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	u.FullName = "Mutated"

	got, err := repo.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.FullName != "Test User" {
		t.Errorf("stored record mutated through returned pointer: %q", got.FullName)
	}
}
