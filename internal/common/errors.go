// Package common defines shared constants and sentinel errors used across
// the market backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Write-gate errors.
	ErrValidation      = errors.New("validation error")
	ErrLimitExceeded   = errors.New("delivery limit exceeded")
	ErrDuplicateSeller = errors.New("seller already registered")

	// Crypto errors (malformed, truncated or tampered ciphertext).
	ErrCrypto = errors.New("field decryption failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
