package application

import "errors"

// Error taxonomy surfaced by the auth service. The HTTP layer maps these to
// protocol responses; anything else propagates as an unexpected failure.
var (
	ErrCredentialsIncorrect = errors.New("credentials incorrect")
	ErrCredentialsTaken     = errors.New("credentials taken")
	ErrAccessDenied         = errors.New("access denied")
	ErrUserNotFound         = errors.New("user not found")
	ErrWrongPassword        = errors.New("incorrect password")
	ErrInvalidResetToken    = errors.New("invalid or expired token")
)
