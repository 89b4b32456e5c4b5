// Package common defines shared constants and sentinel errors used across
// TaskKeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Input errors. ErrorValidation covers malformed or policy-violating
	// values, ErrorInvalidOperation a disallowed field name in an update.
	ErrorValidation       = errors.New("validation error")
	ErrorInvalidOperation = errors.New("invalid operation")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)
