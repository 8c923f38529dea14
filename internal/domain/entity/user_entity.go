package entity

import (
	"time"
)

// User is the aggregate root for the auth domain.
// PasswordHash and RefreshTokenHash are argon2id hashes; RefreshTokenHash is
// nil when the user has no active refresh token (logged out).
// ResetPasswordToken stores the literal signed reset token last issued, nil
// when no reset is pending.
type User struct {
	ID                 int64
	Email              string
	PasswordHash       string
	RefreshTokenHash   *string
	ResetPasswordToken *string
	FirstName          string
	LastName           string
	RoleID             int64
	RoleName           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Sanitized returns a copy with credential material stripped, safe to hand
// back to callers.
func (u User) Sanitized() *User {
	u.PasswordHash = ""
	u.RefreshTokenHash = nil
	u.ResetPasswordToken = nil
	return &u
}
