package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/louiecodes/auth-service/internal/domain/entity"
	"github.com/louiecodes/auth-service/internal/domain/repository"
)

const userColumns = `
	u.id, u.email, u.password_hash, u.refresh_token_hash, u.reset_password_token,
	u.first_name, u.last_name, u.role_id, r.name, u.created_at, u.updated_at`

// Querier is the subset of pgxpool.Pool used by the repository. It matches
// pgxmock so the repository can be tested without a database.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, role_id, created_at, updated_at
	`, u.Email, u.PasswordHash, u.FirstName, u.LastName)

	if err := row.Scan(&u.ID, &u.RoleID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return repository.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+userColumns+`
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+userColumns+`
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1
	`, email)
	return scanUser(row)
}

func (r *UserRepository) UpdateRefreshTokenHash(ctx context.Context, id int64, hash string) error {
	return r.exec(ctx, `
		UPDATE users
		SET refresh_token_hash = $1, updated_at = now()
		WHERE id = $2
	`, hash, id)
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id int64) error {
	// Conditional update; clearing an already-cleared token is not an error.
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, updated_at = now()
		WHERE id = $1 AND refresh_token_hash IS NOT NULL
	`, id)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
}

func (r *UserRepository) SaveResetToken(ctx context.Context, id int64, token string) error {
	return r.exec(ctx, `
		UPDATE users
		SET reset_password_token = $1, updated_at = now()
		WHERE id = $2
	`, token, id)
}

func (r *UserRepository) CompleteReset(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_hash = $1, reset_password_token = NULL, updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
}

func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.RefreshTokenHash, &u.ResetPasswordToken,
		&u.FirstName, &u.LastName, &u.RoleID, &u.RoleName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
