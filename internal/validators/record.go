package validators

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"unicode/utf8"

	"github.com/MKhiriev/go-care-keeper/models"
)

// Field name constants used to restrict validation of a [models.RecordWrite]
// to a subset of fields.
const (
	// FieldCollection targets the table name.
	FieldCollection = "collection"

	// FieldRecordID targets the identifier of the addressed record.
	FieldRecordID = "record_id"

	// FieldPayload targets the JSON body of the record.
	FieldPayload = "payload"
)

// maxRecordIDLength matches the record_id column width.
const maxRecordIDLength = 255

// collectionPattern accepts lowercase SQL-identifier-like table names.
var collectionPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// RecordValidator validates writes received by the reference remote store.
type RecordValidator struct {
}

func NewRecordValidator() Validator {
	return &RecordValidator{}
}

// Validate implements [Validator] for [models.RecordWrite]. Without fields
// every field is checked.
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RecordWrite:
		return v.validateRecordWrite(ctx, value, fields...)
	case *models.RecordWrite:
		return v.validateRecordWrite(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *RecordValidator) validateRecordWrite(_ context.Context, write models.RecordWrite, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCollection, FieldRecordID, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldCollection:
			if !collectionPattern.MatchString(write.Collection) {
				return ErrInvalidCollection
			}
		case FieldRecordID:
			if write.RecordID == "" || len(write.RecordID) > maxRecordIDLength || !utf8.ValidString(write.RecordID) {
				return ErrInvalidRecordID
			}
		case FieldPayload:
			if err := validatePayload(write.Payload); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validatePayload(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ErrEmptyPayload
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return ErrPayloadNotObject
	}
	return nil
}
