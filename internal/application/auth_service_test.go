package application_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louiecodes/auth-service/internal/application"
	"github.com/louiecodes/auth-service/internal/domain/entity"
	"github.com/louiecodes/auth-service/internal/domain/repository"
	"github.com/louiecodes/auth-service/pkg/helpers"
	"github.com/louiecodes/auth-service/pkg/mailer"
)

// memRepo is an in-memory UserRepository for exercising the service without
// a database. Getters return copies, as a real store would.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[int64]*entity.User{}}
}

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.RoleName = entity.RoleUser
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) UpdateRefreshTokenHash(_ context.Context, id int64, hash string) error {
	return r.update(id, func(u *entity.User) { u.RefreshTokenHash = &hash })
}

func (r *memRepo) ClearRefreshToken(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.RefreshTokenHash = nil
	}
	return nil
}

func (r *memRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	return r.update(id, func(u *entity.User) { u.PasswordHash = hash })
}

func (r *memRepo) SaveResetToken(_ context.Context, id int64, token string) error {
	return r.update(id, func(u *entity.User) { u.ResetPasswordToken = &token })
}

func (r *memRepo) CompleteReset(_ context.Context, id int64, hash string) error {
	return r.update(id, func(u *entity.User) {
		u.PasswordHash = hash
		u.ResetPasswordToken = nil
	})
}

func (r *memRepo) update(id int64, fn func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

// mailRecorder captures published email jobs.
type mailRecorder struct {
	err  error
	jobs []mailer.EmailJob
}

func (m *mailRecorder) PublishJSON(_ context.Context, body any) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, body.(mailer.EmailJob))
	return nil
}

func newTestService(t *testing.T) (*application.AuthService, *memRepo, *mailRecorder, *helpers.JWTManager) {
	t.Helper()
	repo := newMemRepo()
	mail := &mailRecorder{}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", "reset-secret", 15*time.Minute, time.Hour)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := application.NewAuthService(repo, jwt, helpers.NewArgon2Hasher(), mail, logger, "http://localhost:3000", "auth-service")
	return svc, repo, mail, jwt
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, jwt := newTestService(t)

	u, pair, err := svc.Signup(ctx, "louie@codes.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotZero(t, u.ID)

	t.Run("tokens embed id and email", func(t *testing.T) {
		claims, err := jwt.ParseAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
		assert.Equal(t, "louie@codes.com", claims.Email)

		claims, err = jwt.ParseRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
	})

	t.Run("returned user carries no credential material", func(t *testing.T) {
		assert.Empty(t, u.PasswordHash)
		assert.Nil(t, u.RefreshTokenHash)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
		assert.Contains(t, stored.PasswordHash, "$argon2id$")
	})

	t.Run("refresh hash is stored", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.RefreshTokenHash)
		assert.NotEqual(t, pair.RefreshToken, *stored.RefreshTokenHash)
	})

	t.Run("signin right after signup works", func(t *testing.T) {
		got, err := svc.Signin(ctx, "louie@codes.com", "hunter2hunter2")
		require.NoError(t, err)
		claims, err := jwt.ParseAccessToken(got.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, _, err := svc.Signup(ctx, "louie@codes.com", "anotherpassword")
		assert.ErrorIs(t, err, application.ErrCredentialsTaken)

		// first record untouched
		stored, gerr := repo.GetByID(ctx, u.ID)
		require.NoError(t, gerr)
		assert.Equal(t, "louie@codes.com", stored.Email)
	})
}

func TestSignin(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	_, _, err := svc.Signup(ctx, "user@example.com", "correcthorse")
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Signin(ctx, "nobody@example.com", "correcthorse")
		assert.ErrorIs(t, err, application.ErrCredentialsIncorrect)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Signin(ctx, "user@example.com", "wronghorse")
		assert.ErrorIs(t, err, application.ErrCredentialsIncorrect)
	})
}

func TestRefreshTokens(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	u, first, err := svc.Signup(ctx, "user@example.com", "correcthorse")
	require.NoError(t, err)

	second, err := svc.RefreshTokens(ctx, u.ID, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	t.Run("previous refresh token is dead after rotation", func(t *testing.T) {
		_, err := svc.RefreshTokens(ctx, u.ID, first.RefreshToken)
		assert.ErrorIs(t, err, application.ErrAccessDenied)
	})

	t.Run("current refresh token still rotates", func(t *testing.T) {
		third, err := svc.RefreshTokens(ctx, u.ID, second.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, second.RefreshToken, third.RefreshToken)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.RefreshTokens(ctx, 9999, first.RefreshToken)
		assert.ErrorIs(t, err, application.ErrAccessDenied)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	u, pair, err := svc.Signup(ctx, "user@example.com", "correcthorse")
	require.NoError(t, err)

	ok, err := svc.Logout(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("refresh after logout is denied", func(t *testing.T) {
		_, err := svc.RefreshTokens(ctx, u.ID, pair.RefreshToken)
		assert.ErrorIs(t, err, application.ErrAccessDenied)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		ok, err := svc.Logout(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService(t)

	u, _, err := svc.Signup(ctx, "user@example.com", "oldpassword1")
	require.NoError(t, err)
	before, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ChangePassword(ctx, 9999, "oldpassword1", "newpassword1")
		assert.ErrorIs(t, err, application.ErrUserNotFound)
	})

	t.Run("wrong current password leaves hash unchanged", func(t *testing.T) {
		_, err := svc.ChangePassword(ctx, u.ID, "notmypassword", "newpassword1")
		assert.ErrorIs(t, err, application.ErrWrongPassword)

		after, gerr := repo.GetByID(ctx, u.ID)
		require.NoError(t, gerr)
		assert.Equal(t, before.PasswordHash, after.PasswordHash)
	})

	t.Run("correct current password rotates the hash", func(t *testing.T) {
		updated, err := svc.ChangePassword(ctx, u.ID, "oldpassword1", "newpassword1")
		require.NoError(t, err)
		assert.Empty(t, updated.PasswordHash)
		assert.Nil(t, updated.RefreshTokenHash)

		_, err = svc.Signin(ctx, "user@example.com", "newpassword1")
		require.NoError(t, err)
		_, err = svc.Signin(ctx, "user@example.com", "oldpassword1")
		assert.ErrorIs(t, err, application.ErrCredentialsIncorrect)
	})
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()
	svc, repo, mail, _ := newTestService(t)

	u, _, err := svc.Signup(ctx, "real@x.com", "correcthorse")
	require.NoError(t, err)

	t.Run("response is identical for unknown and known emails", func(t *testing.T) {
		unknown, err := svc.ForgotPassword(ctx, "nonexistent@x.com")
		require.NoError(t, err)
		known, err := svc.ForgotPassword(ctx, "real@x.com")
		require.NoError(t, err)
		assert.Equal(t, application.ForgotPasswordMessage, unknown)
		assert.Equal(t, known, unknown)
	})

	t.Run("known email persists a token and enqueues mail", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ResetPasswordToken)

		require.Len(t, mail.jobs, 1)
		job := mail.jobs[0]
		assert.Equal(t, "real@x.com", job.To)
		assert.Equal(t, mailer.TemplateResetPassword, job.Template)
		url, _ := job.Data["ResetURL"].(string)
		assert.True(t, strings.HasSuffix(url, *stored.ResetPasswordToken))
	})

	t.Run("unknown email enqueues nothing", func(t *testing.T) {
		before := len(mail.jobs)
		_, err := svc.ForgotPassword(ctx, "nonexistent@x.com")
		require.NoError(t, err)
		assert.Len(t, mail.jobs, before)
	})

	t.Run("publish failure does not surface", func(t *testing.T) {
		mail.err = assert.AnError
		msg, err := svc.ForgotPassword(ctx, "real@x.com")
		require.NoError(t, err)
		assert.Equal(t, application.ForgotPasswordMessage, msg)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, jwt := newTestService(t)

	u, _, err := svc.Signup(ctx, "real@x.com", "originalpass")
	require.NoError(t, err)

	resetToken := func(t *testing.T) string {
		t.Helper()
		_, err := svc.ForgotPassword(ctx, "real@x.com")
		require.NoError(t, err)
		stored, err := repo.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ResetPasswordToken)
		return *stored.ResetPasswordToken
	}

	t.Run("garbage token", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "garbage", "newpassword1")
		assert.ErrorIs(t, err, application.ErrInvalidResetToken)
	})

	t.Run("well-signed token for missing user", func(t *testing.T) {
		token, err := jwt.GenerateResetToken(9999)
		require.NoError(t, err)
		err = svc.ResetPassword(ctx, token, "newpassword1")
		assert.ErrorIs(t, err, application.ErrInvalidResetToken)
	})

	t.Run("superseded token fails, newest succeeds", func(t *testing.T) {
		first := resetToken(t)
		second := resetToken(t)
		require.NotEqual(t, first, second)

		err := svc.ResetPassword(ctx, first, "newpassword1")
		assert.ErrorIs(t, err, application.ErrInvalidResetToken)

		require.NoError(t, svc.ResetPassword(ctx, second, "newpassword1"))
		_, err = svc.Signin(ctx, "real@x.com", "newpassword1")
		require.NoError(t, err)

		t.Run("token is consumed on success", func(t *testing.T) {
			stored, err := repo.GetByID(ctx, u.ID)
			require.NoError(t, err)
			assert.Nil(t, stored.ResetPasswordToken)

			err = svc.ResetPassword(ctx, second, "anotherpass1")
			assert.ErrorIs(t, err, application.ErrInvalidResetToken)
		})
	})

	t.Run("signed but unrecorded token fails", func(t *testing.T) {
		// Syntactically valid and correctly signed, but never persisted.
		token, err := jwt.GenerateResetToken(u.ID)
		require.NoError(t, err)
		err = svc.ResetPassword(ctx, token, "newpassword1")
		assert.ErrorIs(t, err, application.ErrInvalidResetToken)
	})
}
