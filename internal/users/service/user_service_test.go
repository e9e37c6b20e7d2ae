package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/HusseinMoukalled/meetingroom/internal/users/domain"
	"github.com/HusseinMoukalled/meetingroom/internal/users/dto"
	"github.com/HusseinMoukalled/meetingroom/pkg/auth"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *domain.User) error
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	ListFunc          func(ctx context.Context) ([]*domain.User, error)
	UpdateFunc        func(ctx context.Context, user *domain.User) error
	DeleteFunc        func(ctx context.Context, username string) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*domain.User{}, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, username)
	}
	return nil
}

// MockBookingHistory is a mock implementation of BookingHistory
type MockBookingHistory struct {
	HistoryForUserFunc func(ctx context.Context, username, authorization string) ([]HistoryEntry, error)
}

func (m *MockBookingHistory) HistoryForUser(ctx context.Context, username, authorization string) ([]HistoryEntry, error) {
	if m.HistoryForUserFunc != nil {
		return m.HistoryForUserFunc(ctx, username, authorization)
	}
	return []HistoryEntry{}, nil
}

func testTokens() *auth.Manager {
	return auth.NewManager("test-secret", time.Hour, "meetingroom")
}

func storedUser(username, password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:             1,
		Name:           "Alice",
		Username:       username,
		Email:          "alice@example.com",
		HashedPassword: string(hash),
		Role:           domain.RoleRegularUser,
		IsActive:       true,
	}
}

func alice() domain.Identity {
	return domain.Identity{Username: "alice", Role: domain.RoleRegularUser}
}

func admin() domain.Identity {
	return domain.Identity{Username: "root", Role: domain.RoleAdmin}
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name       string
		req        *dto.RegisterRequest
		setupMocks func(*MockUserRepository)
		wantErr    error
		wantRole   string
	}{
		{
			name: "defaults to regular user role",
			req: &dto.RegisterRequest{
				Name: "Alice", Username: "alice",
				Email: "alice@example.com", Password: "password123",
			},
			wantRole: domain.RoleRegularUser,
		},
		{
			name: "explicit role is kept",
			req: &dto.RegisterRequest{
				Name: "Root", Username: "root",
				Email: "root@example.com", Password: "password123",
				Role: domain.RoleAdmin,
			},
			wantRole: domain.RoleAdmin,
		},
		{
			name: "duplicate username",
			req: &dto.RegisterRequest{
				Name: "Alice", Username: "alice",
				Email: "alice@example.com", Password: "password123",
			},
			setupMocks: func(repo *MockUserRepository) {
				repo.CreateFunc = func(ctx context.Context, user *domain.User) error {
					return domain.ErrDuplicateUsername
				}
			},
			wantErr: domain.ErrDuplicateUsername,
		},
		{
			name: "invalid email",
			req: &dto.RegisterRequest{
				Name: "Alice", Username: "alice",
				Email: "not-an-email", Password: "password123",
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "unknown role",
			req: &dto.RegisterRequest{
				Name: "Alice", Username: "alice",
				Email: "alice@example.com", Password: "password123",
				Role: "superuser",
			},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockUserRepository{}
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}
			svc := NewUserService(repo, testTokens(), &MockBookingHistory{})

			user, err := svc.Register(context.Background(), tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() unexpected error: %v", err)
			}
			if user.Role != tt.wantRole {
				t.Errorf("Register() role = %q, want %q", user.Role, tt.wantRole)
			}
			if !user.IsActive {
				t.Error("Register() new accounts should be active")
			}
			if user.HashedPassword == tt.req.Password {
				t.Error("Register() stored the password in clear text")
			}
			if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(tt.req.Password)) != nil {
				t.Error("Register() stored hash does not match the password")
			}
		})
	}
}

func TestUserService_Login(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(*MockUserRepository)
		wantErr    error
	}{
		{
			name:     "success",
			username: "alice",
			password: "password123",
			setupMocks: func(repo *MockUserRepository) {
				repo.GetByUsernameFunc = func(ctx context.Context, username string) (*domain.User, error) {
					return storedUser("alice", "password123"), nil
				}
			},
		},
		{
			name:     "unknown user reads as invalid credentials",
			username: "ghost",
			password: "password123",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong",
			setupMocks: func(repo *MockUserRepository) {
				repo.GetByUsernameFunc = func(ctx context.Context, username string) (*domain.User, error) {
					return storedUser("alice", "password123"), nil
				}
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:     "deactivated account",
			username: "alice",
			password: "password123",
			setupMocks: func(repo *MockUserRepository) {
				repo.GetByUsernameFunc = func(ctx context.Context, username string) (*domain.User, error) {
					u := storedUser("alice", "password123")
					u.IsActive = false
					return u, nil
				}
			},
			wantErr: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockUserRepository{}
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}
			tokens := testTokens()
			svc := NewUserService(repo, tokens, &MockBookingHistory{})

			resp, err := svc.Login(context.Background(), &dto.LoginRequest{
				Username: tt.username, Password: tt.password,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() unexpected error: %v", err)
			}
			if resp.TokenType != "bearer" {
				t.Errorf("Login() token type = %q, want bearer", resp.TokenType)
			}
			claims, err := tokens.VerifyToken(resp.AccessToken)
			if err != nil {
				t.Fatalf("Login() issued an unverifiable token: %v", err)
			}
			if claims.Username != tt.username {
				t.Errorf("Login() token subject = %q, want %q", claims.Username, tt.username)
			}
		})
	}
}

func TestUserService_List(t *testing.T) {
	repo := &MockUserRepository{
		ListFunc: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{storedUser("alice", "x"), storedUser("bob", "x")}, nil
		},
	}
	svc := NewUserService(repo, testTokens(), &MockBookingHistory{})

	if _, err := svc.List(context.Background(), alice()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("List() by non-admin error = %v, want ErrForbidden", err)
	}

	users, err := svc.List(context.Background(), admin())
	if err != nil {
		t.Fatalf("List() by admin unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("List() returned %d users, want 2", len(users))
	}
}

func TestUserService_Update(t *testing.T) {
	newName := "Alice B."
	inactive := false

	tests := []struct {
		name      string
		requester domain.Identity
		target    string
		req       *dto.UpdateUserRequest
		wantErr   error
		check     func(t *testing.T, u *domain.User)
	}{
		{
			name:      "owner updates own name",
			requester: alice(),
			target:    "alice",
			req:       &dto.UpdateUserRequest{Name: &newName},
			check: func(t *testing.T, u *domain.User) {
				if u.Name != newName {
					t.Errorf("name = %q, want %q", u.Name, newName)
				}
				if u.Email != "alice@example.com" {
					t.Errorf("unpatched email changed: %q", u.Email)
				}
			},
		},
		{
			name:      "stranger cannot update",
			requester: domain.Identity{Username: "bob", Role: domain.RoleRegularUser},
			target:    "alice",
			req:       &dto.UpdateUserRequest{Name: &newName},
			wantErr:   domain.ErrForbidden,
		},
		{
			name:      "owner cannot deactivate own account",
			requester: alice(),
			target:    "alice",
			req:       &dto.UpdateUserRequest{IsActive: &inactive},
			wantErr:   domain.ErrForbidden,
		},
		{
			name:      "admin deactivates account",
			requester: admin(),
			target:    "alice",
			req:       &dto.UpdateUserRequest{IsActive: &inactive},
			check: func(t *testing.T, u *domain.User) {
				if u.IsActive {
					t.Error("account should be deactivated")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockUserRepository{
				GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
					return storedUser(username, "password123"), nil
				},
			}
			svc := NewUserService(repo, testTokens(), &MockBookingHistory{})

			user, err := svc.Update(context.Background(), tt.requester, tt.target, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() unexpected error: %v", err)
			}
			tt.check(t, user)
		})
	}
}

func TestUserService_UpdatePasswordRehashes(t *testing.T) {
	newPassword := "new-password-456"
	repo := &MockUserRepository{
		GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return storedUser(username, "password123"), nil
		},
	}
	svc := NewUserService(repo, testTokens(), &MockBookingHistory{})

	user, err := svc.Update(context.Background(), alice(), "alice",
		&dto.UpdateUserRequest{Password: &newPassword})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(newPassword)) != nil {
		t.Error("Update() hash does not match the new password")
	}
}

func TestUserService_Delete(t *testing.T) {
	deleted := ""
	repo := &MockUserRepository{
		DeleteFunc: func(ctx context.Context, username string) error {
			deleted = username
			return nil
		},
	}
	svc := NewUserService(repo, testTokens(), &MockBookingHistory{})

	if err := svc.Delete(context.Background(), alice(), "alice"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete() by non-admin error = %v, want ErrForbidden", err)
	}
	if deleted != "" {
		t.Error("Delete() called the repository despite the denial")
	}

	if err := svc.Delete(context.Background(), admin(), "alice"); err != nil {
		t.Fatalf("Delete() by admin unexpected error: %v", err)
	}
	if deleted != "alice" {
		t.Errorf("Delete() removed %q, want alice", deleted)
	}
}

func TestUserService_History(t *testing.T) {
	entries := []HistoryEntry{{ID: "bk-1", RoomID: 5, Date: "2025-12-31", StartTime: "10:00", EndTime: "11:00"}}

	tests := []struct {
		name      string
		requester domain.Identity
		target    string
		wantErr   error
	}{
		{"owner reads own history", alice(), "alice", nil},
		{"admin reads anyone's history", admin(), "alice", nil},
		{"stranger denied", domain.Identity{Username: "bob", Role: domain.RoleRegularUser}, "alice", domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var forwardedAuth string
			repo := &MockUserRepository{
				GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
					return storedUser(username, "x"), nil
				},
			}
			bookings := &MockBookingHistory{
				HistoryForUserFunc: func(ctx context.Context, username, authorization string) ([]HistoryEntry, error) {
					forwardedAuth = authorization
					return entries, nil
				},
			}
			svc := NewUserService(repo, testTokens(), bookings)

			got, err := svc.History(context.Background(), tt.requester, tt.target, "Bearer tok")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("History() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("History() unexpected error: %v", err)
			}
			if len(got) != 1 || got[0].ID != "bk-1" {
				t.Errorf("History() = %+v, want the downstream entries", got)
			}
			if forwardedAuth != "Bearer tok" {
				t.Errorf("History() forwarded authorization %q, want the caller's header", forwardedAuth)
			}
		})
	}
}

func TestUserService_HistoryUnknownUser(t *testing.T) {
	svc := NewUserService(&MockUserRepository{}, testTokens(), &MockBookingHistory{})

	_, err := svc.History(context.Background(), admin(), "ghost", "Bearer tok")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("History() error = %v, want ErrUserNotFound", err)
	}
}
