// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

type sqliteKeyValueStorage struct {
	*DB
	now func() time.Time
}

// NewSQLiteKeyValueStorage returns a [KeyValueStorage] backed by the kv_store
// table of the client SQLite database. Each Set is a single upsert statement,
// which gives the single-key atomicity the queue relies on.
func NewSQLiteKeyValueStorage(db *DB) KeyValueStorage {
	return &sqliteKeyValueStorage{DB: db, now: time.Now}
}

func (s *sqliteKeyValueStorage) Get(ctx context.Context, key string) ([]byte, error) {
	log := logger.FromContext(ctx)

	var value []byte
	err := s.DB.QueryRowContext(ctx, getKeyValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "sqliteKeyValueStorage.Get").
			Str("key", key).
			Msg("failed to read key")
		return nil, fmt.Errorf("%w (key=%s): %w", ErrReadingStorage, key, err)
	}

	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (s *sqliteKeyValueStorage) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, setKeyValue, key, value, s.now().UTC()); err != nil {
		log.Err(err).
			Str("func", "sqliteKeyValueStorage.Set").
			Str("key", key).
			Int("size", len(value)).
			Msg("failed to write key")
		return fmt.Errorf("%w (key=%s): %w", ErrWritingStorage, key, err)
	}

	return nil
}

func (s *sqliteKeyValueStorage) Remove(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, removeKeyValue, key); err != nil {
		log.Err(err).
			Str("func", "sqliteKeyValueStorage.Remove").
			Str("key", key).
			Msg("failed to remove key")
		return fmt.Errorf("%w (key=%s): %w", ErrWritingStorage, key, err)
	}

	return nil
}
