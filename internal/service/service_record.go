package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/store"
	"github.com/MKhiriev/go-care-keeper/models"
)

type recordService struct {
	recordRepository store.RecordRepository

	logger *logger.Logger
}

// NewRecordService returns a [RecordService] backed by the records table.
// Inputs are expected to be validated by a wrapper.
func NewRecordService(recordRepository store.RecordRepository, logger *logger.Logger) RecordService {
	return &recordService{
		recordRepository: recordRepository,
		logger:           logger,
	}
}

func (r *recordService) InsertRecord(ctx context.Context, write models.RecordWrite) (bool, error) {
	created, err := r.recordRepository.Insert(ctx, write.Collection, write.RecordID, write.Payload)
	if err != nil {
		return false, mapStoreError(err)
	}
	if !created {
		logger.FromContext(ctx).Info().
			Str("collection", write.Collection).
			Str("record_id", write.RecordID).
			Msg("replayed insert ignored")
	}
	return created, nil
}

func (r *recordService) UpdateRecord(ctx context.Context, write models.RecordWrite) error {
	if err := r.recordRepository.Update(ctx, write.Collection, write.RecordID, write.Payload); err != nil {
		return mapStoreError(err)
	}
	return nil
}

func (r *recordService) DeleteRecord(ctx context.Context, collection, recordID string) error {
	if err := r.recordRepository.Delete(ctx, collection, recordID); err != nil {
		return mapStoreError(err)
	}
	return nil
}

func (r *recordService) Ping(ctx context.Context) error {
	if err := r.recordRepository.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// mapStoreError translates repository errors into service errors.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	case errors.Is(err, store.ErrRetryable):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	case errors.Is(err, store.ErrInvalidRecord):
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	default:
		return err
	}
}
