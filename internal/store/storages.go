// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

// Storages groups the server-side repositories of the reference remote store.
type Storages struct {
	RecordRepository RecordRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies migrations and builds the
// repositories.
func NewStorages(ctx context.Context, cfg config.DB, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		RecordRepository: NewRecordRepository(db, logger),
		db:               db,
	}, nil
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
