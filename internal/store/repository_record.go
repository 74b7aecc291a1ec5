// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

const recordsTable = "records"

// recordRepository is the PostgreSQL-backed implementation of
// [RecordRepository]. All records share the "records" table and are keyed
// by (collection, record_id).
type recordRepository struct {
	db      *DB
	builder sq.StatementBuilderType
	now     func() time.Time
	logger  *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] on top of db.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	logger.Debug().Msg("creating record repository")
	return &recordRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now:     time.Now,
		logger:  logger,
	}
}

// Insert adds a record. The statement ends with ON CONFLICT DO NOTHING so
// that a replayed insert (same idempotency key) is accepted without creating
// a duplicate.
func (r *recordRepository) Insert(ctx context.Context, collection, recordID string, payload json.RawMessage) (bool, error) {
	log := logger.FromContext(ctx)

	now := r.now().UTC()
	query, args, err := r.builder.
		Insert(recordsTable).
		Columns("collection", "record_id", "payload", "created_at", "updated_at").
		Values(collection, recordID, []byte(payload), now, now).
		Suffix("ON CONFLICT (collection, record_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Insert").
			Str("collection", collection).
			Str("record_id", recordID).
			Msg("failed to insert record")
		return false, wrapDBError(r.db.errorClassificator, "insert record", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return affected > 0, nil
}

func (r *recordRepository) Update(ctx context.Context, collection, recordID string, payload json.RawMessage) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Update(recordsTable).
		Set("payload", []byte(payload)).
		Set("updated_at", r.now().UTC()).
		Where(sq.Eq{"collection": collection, "record_id": recordID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Update").
			Str("collection", collection).
			Str("record_id", recordID).
			Msg("failed to update record")
		return wrapDBError(r.db.errorClassificator, "update record", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *recordRepository) Delete(ctx context.Context, collection, recordID string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Delete(recordsTable).
		Where(sq.Eq{"collection": collection, "record_id": recordID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "recordRepository.Delete").
			Str("collection", collection).
			Str("record_id", recordID).
			Msg("failed to delete record")
		return wrapDBError(r.db.errorClassificator, "delete record", err)
	}

	return nil
}

func (r *recordRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRetryable, err)
	}
	return nil
}
