package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for responses callers branch on. Wrapped by *Error, so
// errors.Is works across the package boundary.
var (
	// ErrUnauthorized means the access token is missing, expired, or
	// revoked. Callers should send the user through login again.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("api: not found")

	// ErrRateLimited means the platform asked us to back off.
	ErrRateLimited = errors.New("api: rate limited")

	// ErrAuthorizationPending means the user has not yet approved the
	// device login. Poll again after the advertised interval.
	ErrAuthorizationPending = errors.New("api: authorization pending")

	// ErrSlowDown means device login polling is too frequent.
	ErrSlowDown = errors.New("api: slow down")
)

// Error is a non-2xx platform response.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("api: request failed (status %d, code %s)", e.Status, e.Code)
}

// Unwrap maps the response onto the package sentinels.
func (e *Error) Unwrap() error {
	switch e.Code {
	case "authorization_pending":
		return ErrAuthorizationPending
	case "slow_down":
		return ErrSlowDown
	}
	switch e.Status {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	}
	return nil
}
