// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the `fail()`
// helper in this package and give clients a stable, machine-readable error
// taxonomy alongside the human-readable message.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless noted.
//   - Generic codes (bad_request, unauthorized, …) mirror HTTP status
//     semantics; domain-specific codes cover cases status alone cannot convey.
//   - All error responses include both an HTTP status and one of these codes.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInvalidCredential  = "invalid_credential"
	ErrCodeSubmitFailed       = "submit_failed"
	ErrCodeListFailed         = "list_failed"
	ErrCodeExportFailed       = "export_failed"
	ErrCodeConfirmationNeeded = "confirmation_required"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
)
