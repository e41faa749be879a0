// Sentinel errors shared across client and server layers. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors (caught before any remote call is attempted).
	ErrorValidation = errors.New("validation error")

	// Connectivity: the remote store is unreachable. Write operations treat
	// this as "pending sync" rather than a rollback condition.
	ErrorOffline = errors.New("server unavailable")

	// External API errors.
	ErrorRateLimited = errors.New("rate limited")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
