// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DeadLetterReason explains why an operation left the queue without being
// applied to the remote store.
type DeadLetterReason string

const (
	// DeadLetterRetriesExhausted marks an operation that failed MaxRetries times.
	DeadLetterRetriesExhausted DeadLetterReason = "retries_exhausted"

	// DeadLetterMissingRecordID marks an update or delete whose payload has
	// no identifying field. Such operations can never succeed.
	DeadLetterMissingRecordID DeadLetterReason = "missing_record_id"

	// DeadLetterEvicted marks the oldest operation dropped to make room for
	// a new one when the queue was full.
	DeadLetterEvicted DeadLetterReason = "evicted"
)

// DeadLetter is an operation removed from the queue without success,
// preserved for inspection and export.
type DeadLetter struct {
	Operation QueuedOperation  `json:"operation"`
	Reason    DeadLetterReason `json:"reason"`
	Error     string           `json:"error,omitempty"`
	FailedAt  time.Time        `json:"failed_at"`
}
