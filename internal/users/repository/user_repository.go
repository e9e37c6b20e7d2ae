// Package repository provides persistence for users.
package repository

import (
	"context"

	"github.com/HusseinMoukalled/meetingroom/internal/users/domain"
)

// UserRepository defines the interface for user data access.
// Create returns domain.ErrDuplicateUsername when the username is taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, username string) error
}
