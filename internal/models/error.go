package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrNotFound           = errors.New("resource not found")

	// Infrastructure faults
	ErrStoreUnavailable = errors.New("shared store unavailable")

	// Telemetry faults
	ErrInvalidSample = errors.New("collected sample out of range")
)
