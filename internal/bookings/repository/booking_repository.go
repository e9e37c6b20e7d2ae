package repository

import (
	"context"

	"github.com/HusseinMoukalled/meetingroom/internal/bookings/domain"
)

// BookingRepository persists bookings. Create and Update run the
// conflict check and the write as one atomic unit per (room, date), so
// two concurrent mutations with overlapping times cannot both commit.
type BookingRepository interface {
	// Create inserts the booking unless its interval intersects an
	// existing booking for the same room and date, in which case it
	// returns domain.ErrTimeConflict. On success the booking's CreatedAt
	// and UpdatedAt are populated from the store.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID returns the booking or domain.ErrBookingNotFound.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// ListByUsername returns all bookings owned by username.
	ListByUsername(ctx context.Context, username string) ([]*domain.Booking, error)

	// ListAll returns every booking.
	ListAll(ctx context.Context) ([]*domain.Booking, error)

	// ListForRoomDate returns the bookings scoped to one room and date.
	ListForRoomDate(ctx context.Context, roomID int64, date string) ([]*domain.Booking, error)

	// Update rewrites the booking's date and time range unless the new
	// interval intersects another booking for the room and date
	// (excluding the booking itself), in which case it returns
	// domain.ErrTimeConflict. On success UpdatedAt is advanced.
	Update(ctx context.Context, booking *domain.Booking) error

	// Delete removes the booking or returns domain.ErrBookingNotFound.
	Delete(ctx context.Context, id string) error
}
