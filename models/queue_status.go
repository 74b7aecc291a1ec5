// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// QueueStatus is the aggregate view of the offline queue shown to the user.
type QueueStatus struct {
	// Depth is the number of operations waiting to be sent.
	Depth int `json:"depth"`
	// Processing is true while a process pass is running.
	Processing bool `json:"processing"`
	// Failed is the number of operations moved to the dead-letter list.
	Failed int `json:"failed"`
	// Online reflects the connectivity oracle at the time of the snapshot.
	Online bool `json:"online"`
}

// ExecutionOutcome describes how ExecuteWithOfflineSupport handled a call.
type ExecutionOutcome int

const (
	// ExecutionOutcomeDone means the remote store accepted the call directly.
	ExecutionOutcomeDone ExecutionOutcome = iota
	// ExecutionOutcomeQueued means the device was offline and the operation
	// was queued without a direct attempt.
	ExecutionOutcomeQueued
	// ExecutionOutcomeFailedQueued means the direct attempt failed and the
	// operation was queued for a later retry.
	ExecutionOutcomeFailedQueued
)

// String implements fmt.Stringer.
func (o ExecutionOutcome) String() string {
	switch o {
	case ExecutionOutcomeDone:
		return "done"
	case ExecutionOutcomeQueued:
		return "queued"
	case ExecutionOutcomeFailedQueued:
		return "failed_queued"
	default:
		return "unknown"
	}
}

// ExecutionResult is returned by ExecuteWithOfflineSupport.
type ExecutionResult struct {
	Outcome ExecutionOutcome
	// OperationID is set when the operation was queued.
	OperationID string
	// RemoteErr holds the direct-call failure for ExecutionOutcomeFailedQueued.
	RemoteErr error
}

// Queued reports whether the operation ended up in the offline queue.
func (r ExecutionResult) Queued() bool {
	return r.Outcome == ExecutionOutcomeQueued || r.Outcome == ExecutionOutcomeFailedQueued
}
