package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidCollection = errors.New("invalid table name")
	ErrInvalidRecordID   = errors.New("invalid record id")
	ErrEmptyPayload      = errors.New("payload is required")
	ErrPayloadNotObject  = errors.New("payload must be a JSON object")
)
