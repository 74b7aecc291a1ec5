package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-care-keeper/internal/validators"
	"github.com/MKhiriev/go-care-keeper/models"
)

// RecordValidationService rejects malformed writes before they reach the
// wrapped service.
type RecordValidationService struct {
	inner     RecordService
	validator validators.Validator
}

func NewRecordValidationService() RecordServiceWrapper {
	return &RecordValidationService{
		validator: validators.NewRecordValidator(),
	}
}

func (v *RecordValidationService) Wrap(inner RecordService) RecordService {
	v.inner = inner
	return v
}

func (v *RecordValidationService) InsertRecord(ctx context.Context, write models.RecordWrite) (bool, error) {
	if err := v.validator.Validate(ctx, write); err != nil {
		return false, mapValidationError(err)
	}
	return v.inner.InsertRecord(ctx, write)
}

func (v *RecordValidationService) UpdateRecord(ctx context.Context, write models.RecordWrite) error {
	if err := v.validator.Validate(ctx, write); err != nil {
		return mapValidationError(err)
	}
	return v.inner.UpdateRecord(ctx, write)
}

func (v *RecordValidationService) DeleteRecord(ctx context.Context, collection, recordID string) error {
	write := models.RecordWrite{Collection: collection, RecordID: recordID}
	if err := v.validator.Validate(ctx, write, validators.FieldCollection, validators.FieldRecordID); err != nil {
		return mapValidationError(err)
	}
	return v.inner.DeleteRecord(ctx, collection, recordID)
}

func (v *RecordValidationService) Ping(ctx context.Context) error {
	return v.inner.Ping(ctx)
}

func mapValidationError(err error) error {
	if errors.Is(err, validators.ErrInvalidCollection) {
		return fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
}
