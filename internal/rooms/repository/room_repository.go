// Package repository provides persistence for rooms.
package repository

import (
	"context"

	"github.com/HusseinMoukalled/meetingroom/internal/rooms/domain"
)

// Filter narrows room listings. Zero values match everything.
type Filter struct {
	MinCapacity int
	Location    string
	Equipment   []string
}

// RoomRepository defines the interface for room data access.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	ListAvailable(ctx context.Context, filter Filter) ([]*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id int64) error
}
