package service

import "errors"

// Offline queue errors.
var (
	// ErrInvalidOperation is returned by Enqueue for an unknown operation
	// kind or an empty table name. It signals a programming error, not a
	// malformed payload.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrMissingRecordID marks an update or delete whose payload has no
	// usable "id" field. Such an operation can never succeed.
	ErrMissingRecordID = errors.New("payload has no record id")

	// ErrRemotePanic wraps a panic recovered from a remote store call.
	ErrRemotePanic = errors.New("remote store call panicked")

	// ErrPersistQueue is returned when the queue snapshot cannot be read or
	// written. The caller must not assume the operation was queued.
	ErrPersistQueue = errors.New("offline queue persistence failed")

	// ErrInvalidRecord is returned by CareRecordService for records missing
	// required fields.
	ErrInvalidRecord = errors.New("invalid care record")
)

// Record service errors (reference remote store).
var (
	// ErrInvalidTable is returned for table names outside
	// ^[a-z_][a-z0-9_]{0,62}$.
	ErrInvalidTable = errors.New("invalid table name")

	// ErrInvalidPayload is returned for request bodies that are not a JSON
	// object.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrRecordNotFound is returned when an update targets a missing record.
	ErrRecordNotFound = errors.New("record not found")

	// ErrStoreUnavailable is returned for transient database failures.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrInvalidToken is returned for device tokens that fail verification.
	ErrInvalidToken = errors.New("invalid device token")

	// ErrVersionIsNotSpecified is returned when no application version is
	// configured or baked into the binary.
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
