package domain

import "errors"

// Sentinel errors for profile operations.
var (
	// ErrUserNotFound indicates the requested user does not exist or has
	// been deleted. On authenticated routes this surfaces as 401.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates another account already owns the email.
	// HTTP Status: 409 Conflict
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidEmail indicates the provided email address is malformed.
	// HTTP Status: 400 Bad Request
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidCredentials indicates a password check failed.
	// HTTP Status: 401 on login, 400 on password change.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword indicates the new password fails the strength policy.
	// HTTP Status: 400 Bad Request
	ErrWeakPassword = errors.New("password does not meet policy")

	// ErrUnauthorized indicates the caller presented no usable identity.
	// HTTP Status: 401 Unauthorized
	ErrUnauthorized = errors.New("unauthorized access")
)
