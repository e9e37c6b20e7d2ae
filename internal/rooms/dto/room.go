package dto

import (
	"time"

	"github.com/HusseinMoukalled/meetingroom/internal/rooms/domain"
)

// AddRoomRequest is the body of POST /rooms/add.
type AddRoomRequest struct {
	Name        string   `json:"name" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required,gt=0"`
	Equipment   []string `json:"equipment"`
	Location    string   `json:"location" binding:"required"`
	IsAvailable *bool    `json:"is_available"`
}

// UpdateRoomRequest is the body of PUT /rooms/update/:id. Absent fields
// keep their current values.
type UpdateRoomRequest struct {
	Name        *string   `json:"name"`
	Capacity    *int      `json:"capacity"`
	Equipment   *[]string `json:"equipment"`
	Location    *string   `json:"location"`
	IsAvailable *bool     `json:"is_available"`
}

// AvailableQuery filters GET /rooms/available.
type AvailableQuery struct {
	Capacity  int      `form:"capacity"`
	Location  string   `form:"location"`
	Equipment []string `form:"equipment"`
}

// RoomResponse is the wire form of a room.
type RoomResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Equipment   []string  `json:"equipment"`
	Location    string    `json:"location"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatusResponse is the directory view of a room consumed by the
// bookings and reviews services.
type StatusResponse struct {
	RoomID      int64 `json:"room_id"`
	IsAvailable bool  `json:"is_available"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Detail string `json:"detail"`
}

// FromDomain converts a domain room to its wire form.
func FromDomain(r *domain.Room) *RoomResponse {
	return &RoomResponse{
		ID:          r.ID,
		Name:        r.Name,
		Capacity:    r.Capacity,
		Equipment:   r.Equipment,
		Location:    r.Location,
		IsAvailable: r.IsAvailable,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromDomainList converts a slice of domain rooms.
func FromDomainList(rooms []*domain.Room) []*RoomResponse {
	out := make([]*RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, FromDomain(r))
	}
	return out
}
