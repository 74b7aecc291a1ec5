package service

import (
	"context"

	"github.com/MKhiriev/go-care-keeper/models"
)

// RecordService applies record writes on the reference remote store.
type RecordService interface {
	// InsertRecord stores write. A replay of an insert with the same record
	// id is accepted and reports created=false.
	InsertRecord(ctx context.Context, write models.RecordWrite) (created bool, err error)
	// UpdateRecord replaces the payload of an existing record.
	UpdateRecord(ctx context.Context, write models.RecordWrite) error
	// DeleteRecord removes a record; deleting a missing record succeeds.
	DeleteRecord(ctx context.Context, collection, recordID string) error
	// Ping reports whether the record store is reachable.
	Ping(ctx context.Context) error
}

// RecordServiceWrapper defines middleware composition for RecordService.
// Implementations wrap an existing RecordService to add behavior such as
// validation.
type RecordServiceWrapper interface {
	Wrap(RecordService) RecordService
}

// TokenService issues and verifies device tokens.
type TokenService interface {
	IssueToken(ctx context.Context, deviceID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
