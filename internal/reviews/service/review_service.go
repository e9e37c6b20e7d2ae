// Package service implements room review management.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/HusseinMoukalled/meetingroom/internal/reviews/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/reviews/dto"
	"github.com/HusseinMoukalled/meetingroom/internal/reviews/repository"
	"github.com/HusseinMoukalled/meetingroom/pkg/logger"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

// RoomStatus is the directory view of a room.
type RoomStatus struct {
	Exists      bool
	IsAvailable bool
}

// UserDirectory looks up users in the users service.
type UserDirectory interface {
	UserExists(ctx context.Context, username string) (bool, error)
}

// RoomDirectory looks up rooms in the rooms service.
type RoomDirectory interface {
	RoomStatus(ctx context.Context, roomID int64) (*RoomStatus, error)
}

// ReviewService handles room reviews.
type ReviewService interface {
	Create(ctx context.Context, requester domain.Identity, req *dto.CreateReviewRequest) (*domain.Review, error)
	Get(ctx context.Context, id int64) (*domain.Review, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*domain.Review, error)
	ListByUser(ctx context.Context, username string) ([]*domain.Review, error)
	Update(ctx context.Context, requester domain.Identity, id int64, req *dto.UpdateReviewRequest) (*domain.Review, error)
	Flag(ctx context.Context, requester domain.Identity, id int64, reason string) (*domain.Review, error)
	Delete(ctx context.Context, requester domain.Identity, id int64) error
}

type reviewService struct {
	repo  repository.ReviewRepository
	users UserDirectory
	rooms RoomDirectory
	log   *logger.Logger
}

// NewReviewService creates a review service.
func NewReviewService(repo repository.ReviewRepository, users UserDirectory, rooms RoomDirectory) ReviewService {
	return &reviewService{
		repo:  repo,
		users: users,
		rooms: rooms,
		log:   logger.Get(),
	}
}

func (s *reviewService) Create(ctx context.Context, requester domain.Identity, req *dto.CreateReviewRequest) (*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.create")
	defer span.End()

	if !requester.IsAdmin() && requester.Username != req.Username {
		return nil, domain.ErrForbidden
	}

	exists, err := s.users.UserExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	status, err := s.rooms.RoomStatus(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !status.Exists {
		return nil, domain.ErrRoomNotFound
	}

	review := &domain.Review{
		Username: req.Username,
		RoomID:   req.RoomID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("review created",
		zap.Int64("review_id", review.ID),
		zap.String("username", review.Username),
		zap.Int64("room_id", review.RoomID))
	return review, nil
}

func (s *reviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.get")
	defer span.End()

	return s.repo.GetByID(ctx, id)
}

func (s *reviewService) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.list_by_room")
	defer span.End()

	return s.repo.ListByRoom(ctx, roomID)
}

func (s *reviewService) ListByUser(ctx context.Context, username string) ([]*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.list_by_user")
	defer span.End()

	return s.repo.ListByUsername(ctx, username)
}

func (s *reviewService) Update(ctx context.Context, requester domain.Identity, id int64, req *dto.UpdateReviewRequest) (*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.update")
	defer span.End()

	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && requester.Username != review.Username {
		return nil, domain.ErrForbidden
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("review updated", zap.Int64("review_id", id))
	return review, nil
}

func (s *reviewService) Flag(ctx context.Context, requester domain.Identity, id int64, reason string) (*domain.Review, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.review.flag")
	defer span.End()

	if !requester.CanModerate() {
		return nil, domain.ErrForbidden
	}

	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	review.IsFlagged = true
	review.FlagReason = reason
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("review flagged",
		zap.Int64("review_id", id),
		zap.String("flagged_by", requester.Username))
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, requester domain.Identity, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.review.delete")
	defer span.End()

	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Deletion stays with the author; moderation hides via flags instead.
	if requester.Username != review.Username {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("review deleted", zap.Int64("review_id", id))
	return nil
}
