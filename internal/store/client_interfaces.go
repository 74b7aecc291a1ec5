// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-care-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// KeyValueStorage is the durable local storage the offline queue is built on.
// Only single-key atomicity is guaranteed.
type KeyValueStorage interface {
	// Get returns the value stored under key, or (nil, nil) if absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// QueueStore persists the whole pending-operation list as one snapshot.
type QueueStore interface {
	// Load returns the persisted queue in FIFO order. An absent snapshot is
	// an empty queue.
	Load(ctx context.Context) ([]models.QueuedOperation, error)
	// Save replaces the persisted queue with ops.
	Save(ctx context.Context, ops []models.QueuedOperation) error
}

// DeadLetterStore persists operations that left the queue without success.
type DeadLetterStore interface {
	// Append adds letters at the tail, dropping the oldest entries beyond
	// the configured bound.
	Append(ctx context.Context, letters ...models.DeadLetter) error
	// List returns all stored dead letters, oldest first.
	List(ctx context.Context) ([]models.DeadLetter, error)
	// Count returns the number of stored dead letters.
	Count(ctx context.Context) (int, error)
	// Clear removes all dead letters.
	Clear(ctx context.Context) error
}
