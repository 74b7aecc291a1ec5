// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql server/*.sql
var embedMigrations embed.FS

const (
	clientDir = "client"
	serverDir = "server"
)

var errNilDB = errors.New("db is nil")

// MigrateClient applies the local SQLite schema (the key-value table holding
// queue snapshots).
func MigrateClient(db *sql.DB) error {
	return migrate(db, "sqlite3", clientDir)
}

// MigrateServer applies the PostgreSQL schema of the reference remote store.
func MigrateServer(db *sql.DB) error {
	return migrate(db, "pgx", serverDir)
}

func migrate(db *sql.DB, dialect, dir string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
