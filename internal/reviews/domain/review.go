// Package domain holds the room review model.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Roles recognized by the platform.
const (
	RoleRegularUser = "regular_user"
	RoleModerator   = "moderator"
	RoleAdmin       = "admin"
)

// Review is a user's rating of a room. Flagged reviews stay readable
// but carry the flag and its reason.
type Review struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	RoomID     int64     `json:"room_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	IsFlagged  bool      `json:"is_flagged"`
	FlagReason string    `json:"flag_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Domain errors
var (
	ErrReviewNotFound     = errors.New("review not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("not allowed")
	ErrServiceUnavailable = errors.New("dependent service unavailable")
)

// Identity is the authenticated caller of an operation.
type Identity struct {
	Username string
	Role     string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanModerate reports whether the identity may flag reviews.
func (i Identity) CanModerate() bool {
	return i.Role == RoleModerator || i.Role == RoleAdmin
}

// Validate checks the review's fields before persistence.
func (r *Review) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if r.RoomID <= 0 {
		return fmt.Errorf("%w: room id is required", ErrInvalidInput)
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	return nil
}
