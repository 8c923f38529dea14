package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/louiecodes/auth-service/internal/domain/entity"
	"github.com/louiecodes/auth-service/internal/domain/repository"
	"github.com/louiecodes/auth-service/pkg/helpers"
	"github.com/louiecodes/auth-service/pkg/mailer"
)

// PasswordHasher produces and verifies memory-hard password hashes.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(encoded, plain string) bool
}

// MailQueue enqueues outbound email jobs for the worker to deliver.
type MailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// ForgotPasswordMessage is returned by ForgotPassword regardless of whether
// the email maps to an account, to prevent enumeration.
const ForgotPasswordMessage = "Email sent"

// AuthService orchestrates signup, signin, token rotation and the
// password-reset flow. All collaborators are injected.
type AuthService struct {
	repo   repository.UserRepository
	tokens *helpers.JWTManager
	hasher PasswordHasher
	mail   MailQueue
	logger *logrus.Logger

	frontendURL string
	appName     string
}

func NewAuthService(repo repository.UserRepository, tokens *helpers.JWTManager, hasher PasswordHasher, mail MailQueue, logger *logrus.Logger, frontendURL, appName string) *AuthService {
	return &AuthService{
		repo:        repo,
		tokens:      tokens,
		hasher:      hasher,
		mail:        mail,
		logger:      logger,
		frontendURL: frontendURL,
		appName:     appName,
	}
}

// Signup creates a user from raw credentials and issues the first token pair.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*entity.User, helpers.TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, helpers.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, helpers.TokenPair{}, ErrCredentialsTaken
		}
		return nil, helpers.TokenPair{}, err
	}

	pair, err := s.issueTokens(ctx, u.ID, u.Email)
	if err != nil {
		return nil, helpers.TokenPair{}, err
	}
	return u.Sanitized(), pair, nil
}

// Signin verifies credentials and issues a fresh token pair, replacing the
// stored refresh token hash.
func (s *AuthService) Signin(ctx context.Context, email, password string) (helpers.TokenPair, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helpers.TokenPair{}, ErrCredentialsIncorrect
		}
		return helpers.TokenPair{}, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return helpers.TokenPair{}, ErrCredentialsIncorrect
	}
	return s.issueTokens(ctx, u.ID, u.Email)
}

// Logout clears the stored refresh token hash. Idempotent: logging out twice
// still reports success.
func (s *AuthService) Logout(ctx context.Context, userID int64) (bool, error) {
	if err := s.repo.ClearRefreshToken(ctx, userID); err != nil {
		return false, err
	}
	return true, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair. The presented
// token must match the stored hash; any earlier token is rejected.
func (s *AuthService) RefreshTokens(ctx context.Context, userID int64, refreshToken string) (helpers.TokenPair, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helpers.TokenPair{}, ErrAccessDenied
		}
		return helpers.TokenPair{}, err
	}
	if u.RefreshTokenHash == nil || !s.hasher.Verify(*u.RefreshTokenHash, refreshToken) {
		return helpers.TokenPair{}, ErrAccessDenied
	}
	return s.issueTokens(ctx, u.ID, u.Email)
}

// ChangePassword verifies the current password before storing a new hash.
// Returns the updated user with credential fields stripped.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !s.hasher.Verify(u.PasswordHash, currentPassword) {
		return nil, ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	return u.Sanitized(), nil
}

// ForgotPassword issues a reset token and enqueues the reset email when the
// account exists. The response is identical either way so callers cannot
// probe for registered addresses.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ForgotPasswordMessage, nil
		}
		return "", err
	}

	token, err := s.tokens.GenerateResetToken(u.ID)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	if err := s.repo.SaveResetToken(ctx, u.ID, token); err != nil {
		return "", err
	}

	s.sendResetEmail(ctx, u, token)
	return ForgotPasswordMessage, nil
}

// ResetPassword validates the signed reset token against the persisted copy
// and, on match, stores the new password hash and clears the token. Every
// validation failure collapses into the same error.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.ParseResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	// Exact match against the stored token: a replayed or superseded token
	// fails even when its signature is still valid.
	if u.ResetPasswordToken == nil || *u.ResetPasswordToken != token {
		return ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CompleteReset(ctx, u.ID, hash)
}

// issueTokens signs a fresh pair and replaces the stored refresh token hash,
// invalidating any previously issued refresh token.
func (s *AuthService) issueTokens(ctx context.Context, userID int64, email string) (helpers.TokenPair, error) {
	pair, err := s.tokens.GeneratePair(userID, email)
	if err != nil {
		return helpers.TokenPair{}, fmt.Errorf("sign token pair: %w", err)
	}

	rtHash, err := s.hasher.Hash(pair.RefreshToken)
	if err != nil {
		return helpers.TokenPair{}, fmt.Errorf("hash refresh token: %w", err)
	}
	if err := s.repo.UpdateRefreshTokenHash(ctx, userID, rtHash); err != nil {
		return helpers.TokenPair{}, err
	}
	return pair, nil
}

func (s *AuthService) sendResetEmail(ctx context.Context, u *entity.User, token string) {
	if s.mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateResetPassword,
		Data: map[string]any{
			"Name":     u.FirstName,
			"AppName":  s.appName,
			"ResetURL": s.frontendURL + "/reset-password/" + token,
		},
	}
	// The token is already persisted; a publish failure must not fail the
	// request, but it is recorded so lost reset mails are observable.
	if err := s.mail.PublishJSON(ctx, job); err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Error("enqueue reset email failed")
	}
}
