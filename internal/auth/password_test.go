package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tdnguyen/profile-service/internal/core/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Test123!", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Test123!" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := VerifyPassword(hash, "Test123!"); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}
	if err := VerifyPassword(hash, "WrongPassword"); err == nil {
		t.Error("VerifyPassword with wrong password should fail")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("Test123!", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("Test123!", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestPasswordPolicyCheck(t *testing.T) {
	tests := []struct {
		name     string
		policy   PasswordPolicy
		password string
		wantWeak bool
	}{
		{"meets default policy", DefaultPasswordPolicy(), "Test123!", false},
		{"too short", DefaultPasswordPolicy(), "T1!", true},
		{"missing digit", DefaultPasswordPolicy(), "Testtesttest!", true},
		{"upper not required by default", DefaultPasswordPolicy(), "test1234", false},
		{"upper required and missing", PasswordPolicy{MinLength: 8, RequireUpper: true}, "test1234", true},
		{"upper required and present", PasswordPolicy{MinLength: 8, RequireUpper: true}, "Test1234", false},
		{"length only", PasswordPolicy{MinLength: 4}, "abcd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Check(tt.password)
			if tt.wantWeak {
				if !errors.Is(err, domain.ErrWeakPassword) {
					t.Errorf("Check(%q) = %v, want ErrWeakPassword", tt.password, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Check(%q) = %v, want nil", tt.password, err)
			}
		})
	}
}
