// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("x"), want: NonRetryable},
		{name: "bad conn", err: driver.ErrBadConn, want: Retryable},
		{name: "wrapped bad conn", err: fmt.Errorf("exec: %w", driver.ErrBadConn), want: Retryable},
		{name: "connection failure", err: pgError(pgerrcode.ConnectionFailure), want: Retryable},
		{name: "serialization failure", err: pgError(pgerrcode.SerializationFailure), want: Retryable},
		{name: "deadlock", err: pgError(pgerrcode.DeadlockDetected), want: Retryable},
		{name: "too many connections", err: pgError(pgerrcode.TooManyConnections), want: Retryable},
		{name: "cannot connect now", err: pgError(pgerrcode.CannotConnectNow), want: Retryable},
		{name: "unique violation", err: pgError(pgerrcode.UniqueViolation), want: NonRetryable},
		{name: "syntax error", err: pgError(pgerrcode.SyntaxError), want: NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestWrapDBError(t *testing.T) {
	c := NewPostgresErrorClassifier()

	err := wrapDBError(c, "insert record", pgError(pgerrcode.CheckViolation))
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.NotErrorIs(t, err, ErrRetryable)

	err = wrapDBError(c, "insert record", &pgconn.PgError{Code: pgerrcode.SerializationFailure})
	assert.ErrorIs(t, err, ErrRetryable)

	plain := errors.New("plain")
	err = wrapDBError(nil, "delete record", plain)
	assert.ErrorIs(t, err, plain)
	assert.Contains(t, err.Error(), "delete record")
}
