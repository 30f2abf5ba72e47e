// Package common defines shared constants and sentinel errors used across
// the client and server layers of the journal. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrLimitReached is returned when the daily gratitude cap is already met.
	ErrLimitReached = errors.New("daily gratitude limit reached")

	// Audio payload errors.
	ErrInvalidAudio  = errors.New("invalid audio payload")
	ErrAudioTooLarge = errors.New("audio payload too large")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// ValidationError carries a user-facing message and matches ErrorValidation
// under errors.Is.
type ValidationError struct {
	Msg string
}

// NewValidationError returns a ValidationError with msg.
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }
