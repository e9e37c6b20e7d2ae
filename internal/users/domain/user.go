// Package domain holds the user model and its invariants.
package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Roles recognized by the platform.
const (
	RoleRegularUser = "regular_user"
	RoleModerator   = "moderator"
	RoleAdmin       = "admin"
)

// User is a registered account. HashedPassword never leaves the service.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("not allowed")
	ErrServiceUnavailable = errors.New("dependent service unavailable")
)

// ValidRole reports whether the role is one the platform knows.
func ValidRole(role string) bool {
	switch role {
	case RoleRegularUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Validate checks the user's fields before persistence.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, u.Email)
	}
	if !ValidRole(u.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, u.Role)
	}
	return nil
}
