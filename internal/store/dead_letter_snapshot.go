// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-care-keeper/models"
)

type deadLetterStore struct {
	kv  KeyValueStorage
	key string
	max int

	mu sync.Mutex
}

// NewDeadLetterStore returns a [DeadLetterStore] keeping at most max letters
// as one JSON array under [DeadLettersKey]. A non-positive max means no bound.
func NewDeadLetterStore(kv KeyValueStorage, max int) DeadLetterStore {
	return &deadLetterStore{kv: kv, key: DeadLettersKey, max: max}
}

func (d *deadLetterStore) Append(ctx context.Context, letters ...models.DeadLetter) error {
	if len(letters) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	stored, err := loadSnapshot[models.DeadLetter](ctx, d.kv, d.key)
	if err != nil {
		return fmt.Errorf("load dead letters: %w", err)
	}

	stored = append(stored, letters...)
	if d.max > 0 && len(stored) > d.max {
		stored = stored[len(stored)-d.max:]
	}

	if err = saveSnapshot(ctx, d.kv, d.key, stored); err != nil {
		return fmt.Errorf("save dead letters: %w", err)
	}
	return nil
}

func (d *deadLetterStore) List(ctx context.Context) ([]models.DeadLetter, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	letters, err := loadSnapshot[models.DeadLetter](ctx, d.kv, d.key)
	if err != nil {
		return nil, fmt.Errorf("load dead letters: %w", err)
	}
	return letters, nil
}

func (d *deadLetterStore) Count(ctx context.Context) (int, error) {
	letters, err := d.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(letters), nil
}

func (d *deadLetterStore) Clear(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.kv.Remove(ctx, d.key); err != nil {
		return fmt.Errorf("clear dead letters: %w", err)
	}
	return nil
}
