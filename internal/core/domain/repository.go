package domain

import "context"

// UserRepository defines the interface for account data access.
// Implementations must apply each mutation atomically with respect to
// concurrent requests for the same account.
type UserRepository interface {
	// CreateUser inserts a new account and returns it with the assigned ID.
	// Returns ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, email, fullName, passwordHash string) (*User, error)

	// GetUserByID returns the account or ErrUserNotFound.
	GetUserByID(ctx context.Context, id int) (*User, error)

	// GetUserByEmail returns the account or ErrUserNotFound. Lookup is
	// case-insensitive on email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// UpdateProfile overwrites the fields whose pointers are non-nil and
	// returns the updated account. Returns ErrEmailTaken on a unique
	// violation and ErrUserNotFound when the account is gone.
	UpdateProfile(ctx context.Context, id int, email, phoneNumber *string) (*User, error)

	// UpdatePasswordHash replaces the stored hash in a single statement.
	UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error

	// DeleteUser removes the account. Subsequent lookups return
	// ErrUserNotFound.
	DeleteUser(ctx context.Context, id int) error
}
