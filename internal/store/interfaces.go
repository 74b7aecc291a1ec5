// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordRepository is the server-side table storage of the reference remote
// store. Records are addressed by collection (table name) and record id.
type RecordRepository interface {
	// Insert stores payload under (collection, recordID). Repeating an insert
	// for an existing key is a no-op and reports created=false.
	Insert(ctx context.Context, collection, recordID string, payload json.RawMessage) (created bool, err error)
	// Update replaces the payload of an existing record.
	// Returns [ErrRecordNotFound] if the record does not exist.
	Update(ctx context.Context, collection, recordID string, payload json.RawMessage) error
	// Delete removes a record. Deleting an absent record is not an error so
	// that replays of the same delete stay idempotent.
	Delete(ctx context.Context, collection, recordID string) error
	// Ping checks the database connection.
	Ping(ctx context.Context) error
}

// ErrorClassificator decides whether a database error is transient.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
