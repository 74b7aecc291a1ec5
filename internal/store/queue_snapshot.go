// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-care-keeper/models"
)

// Storage keys of the persisted snapshots.
const (
	QueueKey       = "offline_queue"
	DeadLettersKey = "offline_queue_dead_letters"
)

type queueStore struct {
	kv  KeyValueStorage
	key string
}

// NewQueueStore returns a [QueueStore] keeping the whole queue as one JSON
// array under [QueueKey].
func NewQueueStore(kv KeyValueStorage) QueueStore {
	return &queueStore{kv: kv, key: QueueKey}
}

func (q *queueStore) Load(ctx context.Context) ([]models.QueuedOperation, error) {
	ops, err := loadSnapshot[models.QueuedOperation](ctx, q.kv, q.key)
	if err != nil {
		return nil, fmt.Errorf("load queue snapshot: %w", err)
	}
	return ops, nil
}

func (q *queueStore) Save(ctx context.Context, ops []models.QueuedOperation) error {
	if err := saveSnapshot(ctx, q.kv, q.key, ops); err != nil {
		return fmt.Errorf("save queue snapshot: %w", err)
	}
	return nil
}

func loadSnapshot[T any](ctx context.Context, kv KeyValueStorage, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []T{}, nil
	}

	// numbers stay json.Number so large integer ids survive the round trip
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var items []T
	if err = dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w (key=%s): %w", ErrCorruptedSnapshot, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func saveSnapshot[T any](ctx context.Context, kv KeyValueStorage, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode snapshot (key=%s): %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}
