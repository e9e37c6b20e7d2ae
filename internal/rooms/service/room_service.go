// Package service implements room inventory management.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/HusseinMoukalled/meetingroom/internal/rooms/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/rooms/dto"
	"github.com/HusseinMoukalled/meetingroom/internal/rooms/repository"
	"github.com/HusseinMoukalled/meetingroom/pkg/logger"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

// RoomService handles the room inventory.
type RoomService interface {
	Add(ctx context.Context, req *dto.AddRoomRequest) (*domain.Room, error)
	Get(ctx context.Context, id int64) (*domain.Room, error)
	ListAvailable(ctx context.Context, query *dto.AvailableQuery) ([]*domain.Room, error)
	Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*domain.Room, error)
	Delete(ctx context.Context, id int64) error
}

type roomService struct {
	repo repository.RoomRepository
	log  *logger.Logger
}

// NewRoomService creates a room service.
func NewRoomService(repo repository.RoomRepository) RoomService {
	return &roomService{
		repo: repo,
		log:  logger.Get(),
	}
}

func (s *roomService) Add(ctx context.Context, req *dto.AddRoomRequest) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.add")
	defer span.End()

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	equipment := req.Equipment
	if equipment == nil {
		equipment = []string{}
	}

	room := &domain.Room{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Equipment:   equipment,
		Location:    req.Location,
		IsAvailable: available,
	}
	if err := room.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info("room added",
		zap.Int64("room_id", room.ID),
		zap.String("name", room.Name),
		zap.String("location", room.Location))
	return room, nil
}

func (s *roomService) Get(ctx context.Context, id int64) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.get")
	defer span.End()

	return s.repo.GetByID(ctx, id)
}

func (s *roomService) ListAvailable(ctx context.Context, query *dto.AvailableQuery) ([]*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.list_available")
	defer span.End()

	return s.repo.ListAvailable(ctx, repository.Filter{
		MinCapacity: query.Capacity,
		Location:    query.Location,
		Equipment:   query.Equipment,
	})
}

func (s *roomService) Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.update")
	defer span.End()

	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Equipment != nil {
		room.Equipment = *req.Equipment
	}
	if req.Location != nil {
		room.Location = *req.Location
	}
	if req.IsAvailable != nil {
		room.IsAvailable = *req.IsAvailable
	}
	if err := room.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info("room updated", zap.Int64("room_id", id))
	return room, nil
}

func (s *roomService) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "service.room.delete")
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("room deleted", zap.Int64("room_id", id))
	return nil
}
