package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

const (
	userColumns             = `id, username, email, password_hash, first_name, last_name, role, created_at, updated_at`
	usersUsernameConstraint = "users_username_key"
	usersEmailConstraint    = "users_email_key"
)

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user row.
func (s *PGXStore) CreateUser(ctx context.Context, in entity.NewUser) (*entity.User, error) {
	row := s.pool.QueryRow(ctx, `
        INSERT INTO users (username, email, password_hash, first_name, last_name, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+userColumns,
		in.Username, in.Email, in.PasswordHash, in.FirstName, in.LastName, in.Role)

	user, err := scanUser(row)
	if err != nil {
		switch {
		case isUniqueViolation(err, usersUsernameConstraint):
			return nil, ErrUsernameTaken
		case isUniqueViolation(err, usersEmailConstraint):
			return nil, ErrEmailDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by identifier.
func (s *PGXStore) FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.findUser(ctx, "id", id)
}

// FindUserByUsername retrieves a user by login name.
func (s *PGXStore) FindUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.findUser(ctx, "username", username)
}

// FindUserByEmail fetches a user by email if present.
func (s *PGXStore) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.findUser(ctx, "email", email)
}

func (s *PGXStore) findUser(ctx context.Context, column string, value any) (*entity.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by %s: %w", column, err)
	}
	return user, nil
}
