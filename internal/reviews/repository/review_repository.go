// Package repository provides persistence for reviews.
package repository

import (
	"context"

	"github.com/HusseinMoukalled/meetingroom/internal/reviews/domain"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*domain.Review, error)
	ListByUsername(ctx context.Context, username string) ([]*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int64) error
}
