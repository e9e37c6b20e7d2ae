package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/HusseinMoukalled/meetingroom/internal/rooms/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/rooms/dto"
	"github.com/HusseinMoukalled/meetingroom/internal/rooms/repository"
)

// MockRoomRepository is a mock implementation of RoomRepository
type MockRoomRepository struct {
	CreateFunc        func(ctx context.Context, room *domain.Room) error
	GetByIDFunc       func(ctx context.Context, id int64) (*domain.Room, error)
	ListAvailableFunc func(ctx context.Context, filter repository.Filter) ([]*domain.Room, error)
	UpdateFunc        func(ctx context.Context, room *domain.Room) error
	DeleteFunc        func(ctx context.Context, id int64) error
}

func (m *MockRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, room)
	}
	room.ID = 1
	return nil
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrRoomNotFound
}

func (m *MockRoomRepository) ListAvailable(ctx context.Context, filter repository.Filter) ([]*domain.Room, error) {
	if m.ListAvailableFunc != nil {
		return m.ListAvailableFunc(ctx, filter)
	}
	return []*domain.Room{}, nil
}

func (m *MockRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, room)
	}
	return nil
}

func (m *MockRoomRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func boolPtr(b bool) *bool       { return &b }
func strPtr(s string) *string    { return &s }
func intPtr(n int) *int          { return &n }

func TestRoomService_Add(t *testing.T) {
	tests := []struct {
		name    string
		req     *dto.AddRoomRequest
		wantErr error
		check   func(t *testing.T, room *domain.Room)
	}{
		{
			name: "defaults availability and equipment",
			req:  &dto.AddRoomRequest{Name: "Board Room", Capacity: 8, Location: "Floor 2"},
			check: func(t *testing.T, room *domain.Room) {
				if !room.IsAvailable {
					t.Error("new rooms should default to available")
				}
				if room.Equipment == nil || len(room.Equipment) != 0 {
					t.Errorf("equipment = %#v, want empty non-nil slice", room.Equipment)
				}
			},
		},
		{
			name: "explicit unavailability is kept",
			req: &dto.AddRoomRequest{
				Name: "Storage", Capacity: 2, Location: "Basement",
				IsAvailable: boolPtr(false),
			},
			check: func(t *testing.T, room *domain.Room) {
				if room.IsAvailable {
					t.Error("room should stay unavailable")
				}
			},
		},
		{
			name:    "invalid capacity",
			req:     &dto.AddRoomRequest{Name: "Board Room", Capacity: 0, Location: "Floor 2"},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRoomService(&MockRoomRepository{})

			room, err := svc.Add(context.Background(), tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Add() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Add() unexpected error: %v", err)
			}
			tt.check(t, room)
		})
	}
}

func TestRoomService_ListAvailable(t *testing.T) {
	var gotFilter repository.Filter
	repo := &MockRoomRepository{
		ListAvailableFunc: func(ctx context.Context, filter repository.Filter) ([]*domain.Room, error) {
			gotFilter = filter
			return []*domain.Room{{ID: 1, Name: "Board Room"}}, nil
		},
	}
	svc := NewRoomService(repo)

	rooms, err := svc.ListAvailable(context.Background(), &dto.AvailableQuery{
		Capacity:  6,
		Location:  "Floor 2",
		Equipment: []string{"projector"},
	})
	if err != nil {
		t.Fatalf("ListAvailable() unexpected error: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("ListAvailable() returned %d rooms, want 1", len(rooms))
	}

	want := repository.Filter{MinCapacity: 6, Location: "Floor 2", Equipment: []string{"projector"}}
	if !reflect.DeepEqual(gotFilter, want) {
		t.Errorf("ListAvailable() filter = %+v, want %+v", gotFilter, want)
	}
}

func TestRoomService_Update(t *testing.T) {
	existing := func() *domain.Room {
		return &domain.Room{
			ID: 7, Name: "Board Room", Capacity: 8,
			Equipment: []string{"projector"}, Location: "Floor 2", IsAvailable: true,
		}
	}

	tests := []struct {
		name    string
		req     *dto.UpdateRoomRequest
		wantErr error
		check   func(t *testing.T, room *domain.Room)
	}{
		{
			name: "partial update keeps other fields",
			req:  &dto.UpdateRoomRequest{Capacity: intPtr(12)},
			check: func(t *testing.T, room *domain.Room) {
				if room.Capacity != 12 {
					t.Errorf("capacity = %d, want 12", room.Capacity)
				}
				if room.Name != "Board Room" || room.Location != "Floor 2" {
					t.Error("unpatched fields changed")
				}
			},
		},
		{
			name: "toggles availability",
			req:  &dto.UpdateRoomRequest{IsAvailable: boolPtr(false)},
			check: func(t *testing.T, room *domain.Room) {
				if room.IsAvailable {
					t.Error("room should be unavailable")
				}
			},
		},
		{
			name: "replaces equipment",
			req:  &dto.UpdateRoomRequest{Equipment: &[]string{"whiteboard", "tv"}},
			check: func(t *testing.T, room *domain.Room) {
				if !reflect.DeepEqual(room.Equipment, []string{"whiteboard", "tv"}) {
					t.Errorf("equipment = %v", room.Equipment)
				}
			},
		},
		{
			name:    "merged result must stay valid",
			req:     &dto.UpdateRoomRequest{Capacity: intPtr(-1)},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRoomRepository{
				GetByIDFunc: func(ctx context.Context, id int64) (*domain.Room, error) {
					return existing(), nil
				},
			}
			svc := NewRoomService(repo)

			room, err := svc.Update(context.Background(), 7, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() unexpected error: %v", err)
			}
			tt.check(t, room)
		})
	}
}

func TestRoomService_UpdateMissingRoom(t *testing.T) {
	svc := NewRoomService(&MockRoomRepository{})

	_, err := svc.Update(context.Background(), 99, &dto.UpdateRoomRequest{Name: strPtr("X")})
	if !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("Update() error = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomService_Delete(t *testing.T) {
	var deleted int64
	repo := &MockRoomRepository{
		DeleteFunc: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	svc := NewRoomService(repo)

	if err := svc.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if deleted != 7 {
		t.Errorf("Delete() removed %d, want 7", deleted)
	}
}
