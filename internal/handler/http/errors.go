// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the request handlers and the authentication
// middleware. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidJSON is returned when a request body is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrMissingRecordID is returned for inserts whose body has no "id" and
	// which carry no Idempotency-Key header.
	ErrMissingRecordID = errors.New("record id is required: set payload \"id\" or the Idempotency-Key header")

	// ErrRecordIDMismatch is returned for updates whose body "id" differs
	// from the id in the path.
	ErrRecordIDMismatch = errors.New("payload id does not match the path id")
)
