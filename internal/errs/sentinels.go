// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels shared by the transport and resource clients.
var (
	// ErrNotFound indicates the requested resource does not exist on the backend.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing, invalid or expired credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the backend refused the action for the current role.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyExists indicates a conflict (e.g., email already registered).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNoToken indicates no usable credential is persisted locally.
	ErrNoToken = errors.New("no valid token (login required)")
)
