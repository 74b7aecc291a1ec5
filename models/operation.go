// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// OperationKind names the remote-store call a queued operation maps to.
type OperationKind string

const (
	// OperationInsert creates a new record in the target table.
	OperationInsert OperationKind = "insert"

	// OperationUpdate modifies the record identified by the payload "id" field.
	OperationUpdate OperationKind = "update"

	// OperationDelete removes the record identified by the payload "id" field.
	OperationDelete OperationKind = "delete"
)

// Valid reports whether k is one of the known operation kinds.
func (k OperationKind) Valid() bool {
	switch k {
	case OperationInsert, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// RequiresRecordID reports whether operations of kind k address an existing
// record and therefore need an identifying field inside their payload.
func (k OperationKind) RequiresRecordID() bool {
	return k == OperationUpdate || k == OperationDelete
}

// RecordIDField is the payload key carrying the identifier of the target record.
const RecordIDField = "id"

// Payload is the opaque record body passed to the remote store.
// The queue never inspects it apart from the [RecordIDField] lookup.
type Payload map[string]any

// RecordID returns the identifier stored under [RecordIDField].
// Non-empty strings are returned as is, numbers are formatted without an
// exponent. Any other value (absent, null, empty string, object) reports false.
func (p Payload) RecordID() (string, bool) {
	raw, ok := p[RecordIDField]
	if !ok || raw == nil {
		return "", false
	}

	switch v := raw.(type) {
	case string:
		return v, v != ""
	case json.Number:
		return v.String(), v.String() != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// QueuedOperation is a single durable unit of deferred work.
//
// ID is generated at enqueue time and is only used to remove or update the
// entry; processing order is the position in the queue, never the ID.
type QueuedOperation struct {
	ID         string        `json:"id"`
	Kind       OperationKind `json:"kind"`
	Table      string        `json:"table"`
	Payload    Payload       `json:"payload"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
	RetryCount int           `json:"retry_count"`
	OwnerID    string        `json:"owner_id,omitempty"`
}
