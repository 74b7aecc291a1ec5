// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

// ClientStorages groups the durable client-side stores used by the offline
// queue.
type ClientStorages struct {
	// KeyValue is the raw durable storage both snapshots live in.
	KeyValue KeyValueStorage
	// Queue holds the pending-operation snapshot.
	Queue QueueStore
	// DeadLetters holds operations dropped without success.
	DeadLetters DeadLetterStore

	db *DB
}

// NewClientStorages initialises the client storage layer:
//  1. opens the SQLite file at cfg.Path, creating it if it does not exist;
//  2. runs pending schema migrations via [DB.Migrate];
//  3. wires the queue and dead-letter snapshots to the kv_store table.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, queueCfg config.ClientQueue, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	storages := NewClientStoragesFromKV(NewSQLiteKeyValueStorage(db), queueCfg)
	storages.db = db
	return storages, nil
}

// NewClientStoragesFromKV wires the queue and dead-letter snapshots to an
// existing key-value storage.
func NewClientStoragesFromKV(kv KeyValueStorage, queueCfg config.ClientQueue) *ClientStorages {
	return &ClientStorages{
		KeyValue:    kv,
		Queue:       NewQueueStore(kv),
		DeadLetters: NewDeadLetterStore(kv, queueCfg.MaxDeadLetters),
	}
}

// Close releases the underlying database, if any.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
