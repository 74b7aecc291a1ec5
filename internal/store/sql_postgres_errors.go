// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells whether a failed database operation may succeed
// when repeated.
type ErrorClassification int

const (
	// NonRetryable is the default for unrecognised errors, constraint
	// violations, syntax errors and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable marks transient failures (lost connection, deadlock rollback).
	Retryable
)

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL by
// inspecting the pgconn error code returned by the pgx driver.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier].
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Broken driver connections are
// retryable; PostgreSQL errors are delegated to [ClassifyPgError]; anything
// else is non-retryable.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	if errors.Is(err, driver.ErrBadConn) {
		return Retryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	return NonRetryable
}

// ClassifyPgError maps a *pgconn.PgError to an [ErrorClassification].
// See https://www.postgresql.org/docs/current/errcodes-appendix.html.
//
// Retryable codes:
//   - Class 08 — connection exceptions
//   - Class 40 — transaction rollback, serialization failure, deadlock
//   - Class 53 — insufficient resources
//   - Class 57 — cannot connect now, admin shutdown
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch {
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsTransactionRollback(pgErr.Code),
		pgerrcode.IsInsufficientResources(pgErr.Code):
		return Retryable
	}

	switch pgErr.Code {
	case pgerrcode.CannotConnectNow, pgerrcode.AdminShutdown:
		return Retryable
	}

	return NonRetryable
}

// wrapDBError attaches [ErrRetryable] or [ErrInvalidRecord] to err so that
// the HTTP layer can pick a status without knowing about PostgreSQL.
func wrapDBError(classifier ErrorClassificator, op string, err error) error {
	if classifier != nil && classifier.Classify(err) == Retryable {
		return fmt.Errorf("%s: %w: %w", op, ErrRetryable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgerrcode.IsDataException(pgErr.Code) || pgerrcode.IsIntegrityConstraintViolation(pgErr.Code)) {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidRecord, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
