// Package service implements account management and authentication.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/HusseinMoukalled/meetingroom/internal/users/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/users/dto"
	"github.com/HusseinMoukalled/meetingroom/internal/users/repository"
	"github.com/HusseinMoukalled/meetingroom/pkg/auth"
	"github.com/HusseinMoukalled/meetingroom/pkg/logger"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

// HistoryEntry is one booking in a user's history, as reported by the
// bookings service.
type HistoryEntry struct {
	ID        string `json:"id"`
	RoomID    int64  `json:"room_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// BookingHistory fetches a user's bookings from the bookings service.
type BookingHistory interface {
	HistoryForUser(ctx context.Context, username, authorization string) ([]HistoryEntry, error)
}

// UserService handles account registration, authentication and management.
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	List(ctx context.Context, requester domain.Identity) ([]*domain.User, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, requester domain.Identity, username string, req *dto.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, requester domain.Identity, username string) error
	History(ctx context.Context, requester domain.Identity, username, authorization string) ([]HistoryEntry, error)
}

type userService struct {
	repo     repository.UserRepository
	tokens   *auth.Manager
	bookings BookingHistory
	log      *logger.Logger
}

// NewUserService creates a user service.
func NewUserService(repo repository.UserRepository, tokens *auth.Manager, bookings BookingHistory) UserService {
	return &userService{
		repo:     repo,
		tokens:   tokens,
		bookings: bookings,
		log:      logger.Get(),
	}
}

func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.register")
	defer span.End()

	role := req.Role
	if role == "" {
		role = domain.RoleRegularUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:           req.Name,
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hash),
		Role:           role,
		IsActive:       true,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("username", user.Username),
		zap.String("role", user.Role))
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.login")
	defer span.End()

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.CreateAccessToken(user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("username", user.Username))
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *userService) List(ctx context.Context, requester domain.Identity) ([]*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.list")
	defer span.End()

	if !requester.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *userService) Get(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.get")
	defer span.End()

	return s.repo.GetByUsername(ctx, username)
}

func (s *userService) Update(ctx context.Context, requester domain.Identity, username string, req *dto.UpdateUserRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.update")
	defer span.End()

	if !domain.CanAccess(requester, username) {
		return nil, domain.ErrForbidden
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = string(hash)
	}
	if req.IsActive != nil {
		// Only administrators may activate or deactivate accounts.
		if !requester.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		user.IsActive = *req.IsActive
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user updated", zap.String("username", username))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, requester domain.Identity, username string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.user.delete")
	defer span.End()

	if !requester.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}

	s.log.Info("user deleted",
		zap.String("username", username),
		zap.String("deleted_by", requester.Username))
	return nil
}

func (s *userService) History(ctx context.Context, requester domain.Identity, username, authorization string) ([]HistoryEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.history")
	defer span.End()

	if !domain.CanAccess(requester, username) {
		return nil, domain.ErrForbidden
	}
	if _, err := s.repo.GetByUsername(ctx, username); err != nil {
		return nil, err
	}
	return s.bookings.HistoryForUser(ctx, username, authorization)
}
