package repository

import (
	"context"
	"errors"

	"github.com/louiecodes/auth-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a create collides with the unique email index.
	ErrEmailTaken = errors.New("email already taken")
)

// UserRepository defines the persistence contract for user records.
type UserRepository interface {
	// Create inserts a new user with the default role and fills in the
	// generated fields. Returns ErrEmailTaken on a unique-constraint conflict.
	Create(ctx context.Context, u *entity.User) error

	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateRefreshTokenHash replaces the stored refresh token hash, making
	// any previously issued refresh token unusable.
	UpdateRefreshTokenHash(ctx context.Context, id int64, hash string) error

	// ClearRefreshToken nulls the refresh token hash if one is set. It is a
	// no-op when the user is already logged out.
	ClearRefreshToken(ctx context.Context, id int64) error

	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// SaveResetToken records the literal signed reset token, replacing any
	// previously issued one.
	SaveResetToken(ctx context.Context, id int64, token string) error

	// CompleteReset sets the new password hash and clears the reset token in
	// a single update.
	CompleteReset(ctx context.Context, id int64, passwordHash string) error
}
