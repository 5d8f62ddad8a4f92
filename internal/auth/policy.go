package auth

import (
	"fmt"
	"unicode"

	"github.com/tdnguyen/profile-service/internal/core/domain"
)

// PasswordPolicy is the configurable strength predicate applied to new
// passwords at registration and password change.
type PasswordPolicy struct {
	MinLength    int
	RequireDigit bool
	RequireUpper bool
}

// DefaultPasswordPolicy matches the service defaults (8+ chars, one digit).
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:    8,
		RequireDigit: true,
	}
}

// Check returns an error wrapping domain.ErrWeakPassword when the password
// fails the policy, nil otherwise.
func (p PasswordPolicy) Check(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters: %w", p.MinLength, domain.ErrWeakPassword)
	}

	var hasDigit, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}

	if p.RequireDigit && !hasDigit {
		return fmt.Errorf("password must contain a digit: %w", domain.ErrWeakPassword)
	}
	if p.RequireUpper && !hasUpper {
		return fmt.Errorf("password must contain an uppercase letter: %w", domain.ErrWeakPassword)
	}

	return nil
}
