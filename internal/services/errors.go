// Package services defines the business logic for confession submission,
// moderation, and admin authentication. This file centralizes service-level
// error values so they can be consistently returned by service methods and
// mapped to HTTP results at the handler layer.
package services

import "errors"

// Submission errors.
var (
	// ErrEmptyContent is returned when a submission is empty after trimming.
	ErrEmptyContent = errors.New("content is empty")

	// ErrContentTooLong is returned when a submission exceeds the maximum
	// configured content length.
	ErrContentTooLong = errors.New("content too long")
)

// Auth errors.
var (
	// ErrInvalidCredential indicates an unknown email or a wrong password.
	// The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredential = errors.New("invalid email or password")

	// ErrTooManyAttempts is returned when login attempts for an identity are
	// being throttled.
	ErrTooManyAttempts = errors.New("too many failed attempts")

	// ErrNoSession indicates a missing, expired, or logged-out session token.
	ErrNoSession = errors.New("no active session")
)
