package dto

import (
	"time"

	"github.com/HusseinMoukalled/meetingroom/internal/bookings/domain"
)

// CreateBookingRequest is the body of POST /bookings/create.
type CreateBookingRequest struct {
	Username  string `json:"username" binding:"required"`
	RoomID    int64  `json:"room_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// UpdateBookingRequest is the body of PUT /bookings/:id. Absent fields
// keep their current values.
type UpdateBookingRequest struct {
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// BookingResponse is the wire form of a booking.
type BookingResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	RoomID    int64     `json:"room_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityQuery is the query string of GET /bookings/check.
type AvailabilityQuery struct {
	RoomID    int64  `form:"room_id" binding:"required"`
	Date      string `form:"date" binding:"required"`
	StartTime string `form:"start_time" binding:"required"`
	EndTime   string `form:"end_time" binding:"required"`
}

// AvailabilityResponse is the result of GET /bookings/check.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// DeleteResponse confirms a cancellation.
type DeleteResponse struct {
	Detail string `json:"detail"`
}

// FromDomain converts a domain booking to its wire form.
func FromDomain(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:        b.ID,
		Username:  b.Username,
		RoomID:    b.RoomID,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// FromDomainList converts a slice of domain bookings.
func FromDomainList(bookings []*domain.Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, FromDomain(b))
	}
	return out
}
