// Package domain holds the meeting room model.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Room is a bookable meeting room.
type Room struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Equipment   []string  `json:"equipment"`
	Location    string    `json:"location"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Domain errors
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("not allowed")
)

// Validate checks the room's fields before persistence.
func (r *Room) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if r.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	return nil
}

// HasEquipment reports whether the room carries every requested item.
func (r *Room) HasEquipment(wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, e := range r.Equipment {
			if strings.EqualFold(e, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
