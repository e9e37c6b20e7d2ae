package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HusseinMoukalled/meetingroom/internal/bookings/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/bookings/dto"
	"github.com/HusseinMoukalled/meetingroom/internal/bookings/repository"
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

// BookingService handles the booking workflow.
type BookingService interface {
	Create(ctx context.Context, requester domain.Identity, req *dto.CreateBookingRequest) (*domain.Booking, error)
	Get(ctx context.Context, requester domain.Identity, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, requester domain.Identity, username string) ([]*domain.Booking, error)
	ListAll(ctx context.Context, requester domain.Identity) ([]*domain.Booking, error)
	CheckAvailability(ctx context.Context, roomID int64, date, startTime, endTime string) (bool, error)
	Update(ctx context.Context, requester domain.Identity, id string, req *dto.UpdateBookingRequest) (*domain.Booking, error)
	Cancel(ctx context.Context, requester domain.Identity, id string) error
}

type bookingService struct {
	repo  repository.BookingRepository
	users UserDirectory
	rooms RoomDirectory
	log   *logger.Logger
}

// NewBookingService creates a booking service.
func NewBookingService(repo repository.BookingRepository, users UserDirectory, rooms RoomDirectory) BookingService {
	return &bookingService{
		repo:  repo,
		users: users,
		rooms: rooms,
		log:   logger.Get(),
	}
}

func (s *bookingService) Create(ctx context.Context, requester domain.Identity, req *dto.CreateBookingRequest) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create")
	defer span.End()

	if !domain.CanAccess(requester, req.Username) {
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
	if !status.IsAvailable {
		return nil, domain.ErrRoomUnavailable
	}

	booking := &domain.Booking{
		ID:        uuid.NewString(),
		Username:  req.Username,
		RoomID:    req.RoomID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("username", booking.Username),
		zap.Int64("room_id", booking.RoomID),
		zap.String("date", booking.Date))

	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, requester domain.Identity, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
	defer span.End()

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(requester, booking.Username) {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) ListByUser(ctx context.Context, requester domain.Identity, username string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_by_user")
	defer span.End()

	if !domain.CanAccess(requester, username) {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByUsername(ctx, username)
}

func (s *bookingService) ListAll(ctx context.Context, requester domain.Identity) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_all")
	defer span.End()

	if !requester.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListAll(ctx)
}

func (s *bookingService) CheckAvailability(ctx context.Context, roomID int64, date, startTime, endTime string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.check_availability")
	defer span.End()

	if err := domain.ParseDate(date); err != nil {
		return false, err
	}
	candidate, err := domain.NewInterval(startTime, endTime)
	if err != nil {
		return false, err
	}

	status, err := s.rooms.RoomStatus(ctx, roomID)
	if err != nil {
		return false, err
	}
	if !status.Exists {
		return false, domain.ErrRoomNotFound
	}
	if !status.IsAvailable {
		return false, nil
	}

	existing, err := s.repo.ListForRoomDate(ctx, roomID, date)
	if err != nil {
		return false, err
	}
	conflict := domain.FirstConflict(candidate, existing)
	return conflict == nil, nil
}

func (s *bookingService) Update(ctx context.Context, requester domain.Identity, id string, req *dto.UpdateBookingRequest) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.update")
	defer span.End()

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccess(requester, booking.Username) {
		return nil, domain.ErrForbidden
	}

	if req.Date != nil {
		booking.Date = *req.Date
	}
	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
	}
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("booking updated", zap.String("booking_id", booking.ID))
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, requester domain.Identity, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel")
	defer span.End()

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanAccess(requester, booking.Username) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("booking cancelled",
		zap.String("booking_id", id),
		zap.String("cancelled_by", requester.Username))
	return nil
}
