package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/provisionexpertax/taxportal/internal/auth"
	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/repository"
	"github.com/provisionexpertax/taxportal/internal/session"
)

type mockUsersRepository struct {
	findByUsername func(ctx context.Context, username string) (*entity.User, error)
	findByEmail    func(ctx context.Context, email string) (*entity.User, error)
	findByID       func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	create         func(ctx context.Context, in entity.NewUser) (*entity.User, error)
}

func (m *mockUsersRepository) FindUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.findByUsername != nil {
		return m.findByUsername(ctx, username)
	}
	return nil, errors.New("FindUserByUsername not implemented")
}

func (m *mockUsersRepository) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmail != nil {
		return m.findByEmail(ctx, email)
	}
	return nil, errors.New("FindUserByEmail not implemented")
}

func (m *mockUsersRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindUserByID not implemented")
}

func (m *mockUsersRepository) CreateUser(ctx context.Context, in entity.NewUser) (*entity.User, error) {
	if m.create != nil {
		return m.create(ctx, in)
	}
	return nil, errors.New("CreateUser not implemented")
}

func newTestAuthService(repo repository.UsersRepository) (*AuthService, *session.Manager, *auth.JWTManager) {
	sessions := session.NewManager(session.NewMemoryStore(), session.Options{TTL: time.Hour})
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(repo, sessions, jwtManager), sessions, jwtManager
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("super-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected bcrypt error: %v", err)
	}
	stored := func(ctx context.Context, username string) (*entity.User, error) {
		return &entity.User{
			ID:           uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
			Username:     username,
			Email:        "john@example.com",
			PasswordHash: string(hashed),
			Role:         entity.RoleAdmin,
		}, nil
	}

	tests := map[string]struct {
		username    string
		password    string
		repo        repository.UsersRepository
		expectError error
	}{
		"user not found": {
			username: "john",
			password: "whatever",
			repo: &mockUsersRepository{
				findByUsername: func(ctx context.Context, username string) (*entity.User, error) {
					return nil, repository.ErrUserNotFound
				},
			},
			expectError: ErrInvalidCredentials,
		},
		"password mismatch": {
			username:    "john",
			password:    "wrong",
			repo:        &mockUsersRepository{findByUsername: stored},
			expectError: ErrInvalidCredentials,
		},
		"repository failure": {
			username: "john",
			password: "super-secret",
			repo: &mockUsersRepository{
				findByUsername: func(ctx context.Context, username string) (*entity.User, error) {
					return nil, errors.New("connection reset")
				},
			},
			expectError: errors.New("connection reset"),
		},
		"success": {
			username: "john",
			password: "super-secret",
			repo:     &mockUsersRepository{findByUsername: stored},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			service, sessions, jwtManager := newTestAuthService(tt.repo)

			result, err := service.Login(context.Background(), dto.LoginRequest{Username: tt.username, Password: tt.password})
			if tt.expectError != nil {
				if err == nil || err.Error() != tt.expectError.Error() {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				if result != nil {
					t.Fatalf("expected nil result on error, got %+v", result)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			loaded, err := sessions.Load(context.Background(), result.Session.ID)
			if err != nil {
				t.Fatalf("expected stored session: %v", err)
			}
			if loaded.Data.Role != entity.RoleAdmin || loaded.Data.Email != "john@example.com" {
				t.Fatalf("unexpected session data: %+v", loaded.Data)
			}
			claims, err := jwtManager.ParseToken(result.AccessToken)
			if err != nil {
				t.Fatalf("expected valid token: %v", err)
			}
			if claims.Subject != "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa" || claims.Username != "john" {
				t.Fatalf("unexpected claims: %+v", claims)
			}
		})
	}
}

func TestAuthService_LoginRequiresCredentials(t *testing.T) {
	service, _, _ := newTestAuthService(&mockUsersRepository{})

	_, err := service.Login(context.Background(), dto.LoginRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["username"] == "" || verr.Fields["password"] == "" {
		t.Fatalf("expected username and password errors, got %v", verr.Fields)
	}
}

func TestAuthService_Register(t *testing.T) {
	store := repository.NewMemoryStore()
	service, _, _ := newTestAuthService(store)
	ctx := context.Background()
	first := "Jane"

	result, err := service.Register(ctx, dto.RegisterRequest{
		Username:  "jane",
		Email:     "Jane@Example.com",
		Password:  "password123",
		FirstName: &first,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Role != entity.RoleClient {
		t.Fatalf("expected client role, got %q", result.User.Role)
	}
	if result.User.Email != "jane@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if result.User.PasswordHash == "password123" {
		t.Fatalf("password stored in plain text")
	}
	if result.Session == nil || result.AccessToken == "" {
		t.Fatalf("expected register to sign the user in")
	}

	_, err = service.Register(ctx, dto.RegisterRequest{Username: "jane", Email: "other@example.com", Password: "password123"})
	if !errors.Is(err, repository.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	_, err = service.Register(ctx, dto.RegisterRequest{Username: "jane2", Email: "jane@example.com", Password: "password123"})
	if !errors.Is(err, repository.ErrEmailDuplicate) {
		t.Fatalf("expected ErrEmailDuplicate, got %v", err)
	}
}

func TestAuthService_LogoutAndCurrentUser(t *testing.T) {
	store := repository.NewMemoryStore()
	service, sessions, _ := newTestAuthService(store)
	ctx := context.Background()

	result, err := service.Register(ctx, dto.RegisterRequest{Username: "pat", Email: "pat@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := service.CurrentUser(ctx, result.Session.Data.UserID)
	if err != nil || user.Username != "pat" {
		t.Fatalf("unexpected current user %+v, err %v", user, err)
	}
	if _, err := service.CurrentUser(ctx, "not-a-uuid"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := service.Logout(ctx, result.Session.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := sessions.Load(ctx, result.Session.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected session to be gone, got %v", err)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	store := repository.NewMemoryStore()
	service, _, _ := newTestAuthService(store)
	ctx := context.Background()

	created, err := service.EnsureAdmin(ctx, "admin", "admin@example.com", "changeme")
	if err != nil || !created {
		t.Fatalf("expected admin to be created, got %v %v", created, err)
	}
	created, err = service.EnsureAdmin(ctx, "admin", "admin@example.com", "changeme")
	if err != nil || created {
		t.Fatalf("expected second seed to be a no-op, got %v %v", created, err)
	}

	result, err := service.Login(ctx, dto.LoginRequest{Username: "admin", Password: "changeme"})
	if err != nil {
		t.Fatalf("login as seeded admin: %v", err)
	}
	if result.User.Role != entity.RoleAdmin {
		t.Fatalf("expected admin role, got %q", result.User.Role)
	}
}
