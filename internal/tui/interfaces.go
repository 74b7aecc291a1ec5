package tui

import (
	"context"

	"github.com/MKhiriev/go-care-keeper/models"
)

// QueueStatus is the queue view the console renders and acts on.
type QueueStatus interface {
	Status(ctx context.Context) (models.QueueStatus, error)
	Updates() <-chan models.QueueStatus
	ProcessNow(ctx context.Context) error
	Clear(ctx context.Context) error
	ExportFailed(ctx context.Context) ([]byte, error)
}

// VitalRecorder writes a vital sign through the offline executor.
type VitalRecorder interface {
	RecordVital(ctx context.Context, vital models.VitalSign) (models.ExecutionResult, error)
}

// ForegroundHook is told when the terminal regains focus.
type ForegroundHook interface {
	OnForeground(ctx context.Context) error
}
