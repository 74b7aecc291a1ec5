// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/migrations"
)

// DB wraps *sql.DB with the dialect-specific migration set and the error
// classifier used by repositories.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	migrate            func(*sql.DB) error
	logger             *logger.Logger
}

// Migrate applies the embedded migrations for the connection dialect.
func (db *DB) Migrate() error {
	if db.migrate == nil {
		return migrations.MigrateClient(db.DB)
	}
	return db.migrate(db.DB)
}
