package adapter

import "errors"

// Errors mapped from HTTP statuses of the remote store.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("record not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServerUnavailable   = errors.New("server unavailable")
)

// Client-side adapter errors.
var (
	// ErrInvalidAddress is returned when the configured remote address
	// cannot be turned into a base URL.
	ErrInvalidAddress = errors.New("invalid remote address")

	// ErrEmptyRecordID is returned by Update and Delete when no record id
	// is given.
	ErrEmptyRecordID = errors.New("empty record id")
)
