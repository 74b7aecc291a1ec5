// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by store methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when an update or delete targets a record
	// (collection + record id) that does not exist.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrRetryable wraps database failures that may succeed when repeated
	// (lost connection, serialization failure, deadlock).
	ErrRetryable = errors.New("retryable database error")

	// ErrInvalidRecord wraps database failures caused by the record itself
	// (malformed JSON, constraint violations).
	ErrInvalidRecord = errors.New("invalid record")
)

// Local storage errors.
var (
	// ErrReadingStorage is returned when the durable key-value storage
	// cannot be read.
	ErrReadingStorage = errors.New("failed to read local storage")

	// ErrWritingStorage is returned when the durable key-value storage
	// cannot be written.
	ErrWritingStorage = errors.New("failed to write local storage")

	// ErrCorruptedSnapshot is returned when a persisted snapshot cannot be
	// decoded.
	ErrCorruptedSnapshot = errors.New("corrupted snapshot in local storage")
)

// Low-level database operation errors.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")
)
