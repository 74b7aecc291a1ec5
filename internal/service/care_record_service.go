package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-care-keeper/internal/utils"
	"github.com/MKhiriev/go-care-keeper/models"
)

// OfflineExecutor runs a mutation directly or queues it.
type OfflineExecutor interface {
	ExecuteWithOfflineSupport(ctx context.Context, kind models.OperationKind, table string, payload models.Payload, ownerID string) (models.ExecutionResult, error)
}

// CareRecordService writes health records for one caregiver device. Every
// call goes through the offline executor, so it succeeds offline too.
type CareRecordService struct {
	executor OfflineExecutor
	ownerID  string
	newID    func() string
}

// NewCareRecordService returns a service writing on behalf of ownerID.
func NewCareRecordService(executor OfflineExecutor, ownerID string) *CareRecordService {
	return &CareRecordService{
		executor: executor,
		ownerID:  ownerID,
		newID:    utils.NewUUIDGenerator().Generate,
	}
}

// RecordVital inserts a measurement. A missing id is generated so the row
// can be addressed later; a zero MeasuredAt is rejected.
func (s *CareRecordService) RecordVital(ctx context.Context, vital models.VitalSign) (models.ExecutionResult, error) {
	if vital.RecipientID == "" || vital.Kind == "" || strings.TrimSpace(vital.Value) == "" {
		return models.ExecutionResult{}, fmt.Errorf("%w: vital needs recipient, kind and value", ErrInvalidRecord)
	}
	if vital.MeasuredAt.IsZero() {
		return models.ExecutionResult{}, fmt.Errorf("%w: vital needs a measurement time", ErrInvalidRecord)
	}
	if vital.ID == "" {
		vital.ID = s.newID()
	}
	vital.MeasuredAt = vital.MeasuredAt.UTC()

	return s.execute(ctx, models.OperationInsert, models.TableVitals, vital)
}

// AddMedication inserts a medication.
func (s *CareRecordService) AddMedication(ctx context.Context, med models.Medication) (models.ExecutionResult, error) {
	if med.RecipientID == "" || med.Name == "" {
		return models.ExecutionResult{}, fmt.Errorf("%w: medication needs recipient and name", ErrInvalidRecord)
	}
	if med.ID == "" {
		med.ID = s.newID()
	}

	return s.execute(ctx, models.OperationInsert, models.TableMedications, med)
}

// UpdateMedication replaces an existing medication identified by med.ID.
func (s *CareRecordService) UpdateMedication(ctx context.Context, med models.Medication) (models.ExecutionResult, error) {
	if med.ID == "" {
		return models.ExecutionResult{}, fmt.Errorf("%w: medication id is required for update", ErrInvalidRecord)
	}

	return s.execute(ctx, models.OperationUpdate, models.TableMedications, med)
}

// ScheduleAppointment inserts an appointment.
func (s *CareRecordService) ScheduleAppointment(ctx context.Context, appt models.Appointment) (models.ExecutionResult, error) {
	if appt.RecipientID == "" || appt.Title == "" || appt.StartsAt.IsZero() {
		return models.ExecutionResult{}, fmt.Errorf("%w: appointment needs recipient, title and start", ErrInvalidRecord)
	}
	if appt.ID == "" {
		appt.ID = s.newID()
	}
	appt.StartsAt = appt.StartsAt.UTC()

	return s.execute(ctx, models.OperationInsert, models.TableAppointments, appt)
}

// CancelAppointment deletes the appointment id.
func (s *CareRecordService) CancelAppointment(ctx context.Context, id string) (models.ExecutionResult, error) {
	if id == "" {
		return models.ExecutionResult{}, fmt.Errorf("%w: appointment id is required", ErrInvalidRecord)
	}

	return s.execute(ctx, models.OperationDelete, models.TableAppointments, models.Payload{models.RecordIDField: id})
}

func (s *CareRecordService) execute(ctx context.Context, kind models.OperationKind, table string, record any) (models.ExecutionResult, error) {
	payload, ok := record.(models.Payload)
	if !ok {
		var err error
		if payload, err = models.ToPayload(record); err != nil {
			return models.ExecutionResult{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
	}

	return s.executor.ExecuteWithOfflineSupport(ctx, kind, table, payload, s.ownerID)
}
