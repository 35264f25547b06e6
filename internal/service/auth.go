package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/provisionexpertax/taxportal/internal/auth"
	"github.com/provisionexpertax/taxportal/internal/dto"
	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/normalize"
	"github.com/provisionexpertax/taxportal/internal/repository"
	"github.com/provisionexpertax/taxportal/internal/session"
)

// AuthResult is a successful sign-in: the user, the server-side session
// behind the cookie and a bearer token for API clients.
type AuthResult struct {
	User        entity.User
	Session     *session.Session
	AccessToken string
	ExpiresAt   time.Time
}

// AuthService coordinates registration, credential checks and session issuance.
type AuthService struct {
	users    repository.UsersRepository
	sessions *session.Manager
	jwt      *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, sessions *session.Manager, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, sessions: sessions, jwt: jwtManager}
}

// Register creates a client account and signs it in.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}
	email, err := normalize.Email(req.Email)
	if err != nil {
		return nil, invalidField("email", "invalid email format")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, entity.NewUser{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    normalize.OptionalText(req.FirstName),
		LastName:     normalize.OptionalText(req.LastName),
		Role:         entity.RoleClient,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, *user)
}

// Login validates credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailed(err)
	}

	user, err := s.users.FindUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, *user)
}

// Logout revokes the session. Unknown ids are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// CurrentUser loads the account behind an authenticated identity.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}
	return s.users.FindUserByID(ctx, id)
}

// EnsureAdmin creates an admin account unless the username already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, errors.New("admin username and password must not be empty")
	}

	_, err := s.users.FindUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	normalized, err := normalize.Email(email)
	if err != nil {
		return false, fmt.Errorf("admin email: %w", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.users.CreateUser(ctx, entity.NewUser{
		Username:     username,
		Email:        normalized,
		PasswordHash: string(hashed),
		Role:         entity.RoleAdmin,
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) issue(ctx context.Context, user entity.User) (*AuthResult, error) {
	sess, err := s.sessions.Create(ctx, session.Data{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		return nil, err
	}

	token, expires, err := s.jwt.GenerateToken(user.ID.String(), user.Username, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Session: sess, AccessToken: token, ExpiresAt: expires}, nil
}
