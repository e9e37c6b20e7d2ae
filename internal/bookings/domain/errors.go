package domain

import "errors"

// Domain errors
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrRoomUnavailable  = errors.New("room is not available for booking")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrTimeConflict     = errors.New("room already booked for this time")

	ErrForbidden          = errors.New("not allowed")
	ErrServiceUnavailable = errors.New("dependent service unavailable")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
