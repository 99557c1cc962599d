package dto

import (
	"time"

	"github.com/spec-kit/package-tracking/internal/domain"
)

// RegisterRequest creates a client account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates any role.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Active bool        `json:"active"`
}

// CreateUserRequest provisions an account with a role (staff only).
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SetRoleRequest changes an account role.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// SetActiveRequest toggles an account.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// PasswordResetRequest starts the reset flow.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest completes the reset flow.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest updates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// NotificationResponse is one feed entry.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	PackageID *string   `json:"package_id,omitempty"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
