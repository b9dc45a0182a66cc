// Package common defines shared sentinel errors used across the feedback
// board's layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")

	// Service-level errors.
	ErrInvalidCredentials = errors.New("invalid username/password")
	ErrValidation         = errors.New("validation error")
	ErrInternal           = errors.New("internal error")

	// Authorization errors.
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")

	// Auth errors (invalid or malformed session token).
	ErrInvalidToken = errors.New("invalid token")
)
