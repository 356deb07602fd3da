// Package domain holds the shared error taxonomy for the store and its
// repositories. Services wrap these sentinels with %w so handlers can map
// them to HTTP statuses with errors.Is.
package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrStorageFailure     = errors.New("storage failure")
	ErrNetworkFailure     = errors.New("network failure")
	ErrDecodingFailure    = errors.New("decoding failure")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidImage       = errors.New("invalid image")
)
