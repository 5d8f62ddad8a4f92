package domain

// User is the stored account record. PasswordHash never leaves this package
// boundary in a response; handlers serialize Profile instead.
type User struct {
	ID           int
	Email        string
	FullName     string
	PhoneNumber  *string
	PasswordHash string
	IsVerified   bool
	IsActive     bool
}

// Profile is the subset of a user account exposed over the API.
type Profile struct {
	ID          int     `json:"id"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	IsVerified  bool    `json:"is_verified"`
}

// Profile converts the stored record into its API representation.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		IsVerified:  u.IsVerified,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// UpdateProfileRequest carries a partial update: nil fields leave the stored
// value untouched.
type UpdateProfileRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// DeleteAccountRequest is accepted on account deletion for clients that still
// send it. The confirm flag is not enforced; deletion is gated on the bearer
// token alone.
type DeleteAccountRequest struct {
	Confirm bool `json:"confirm"`
}
