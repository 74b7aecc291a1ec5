package service

import (
	"context"

	"github.com/MKhiriev/go-care-keeper/models"
)

// ExecuteWithOfflineSupport performs a mutation immediately when online and
// falls back to the queue otherwise.
//
// Online, the remote call is made directly. On success the result is
// [models.ExecutionOutcomeDone]; on failure the operation is queued and the
// result is [models.ExecutionOutcomeFailedQueued] with the remote error in
// RemoteErr. Offline, the operation is queued without an attempt
// ([models.ExecutionOutcomeQueued]). The direct attempt and the queued entry
// share one operation id, so a replay after an ambiguous failure carries the
// same idempotency key.
//
// The returned error is either [ErrInvalidOperation] or a persistence
// failure of the queue.
func (q *OfflineQueue) ExecuteWithOfflineSupport(ctx context.Context, kind models.OperationKind, table string, payload models.Payload, ownerID string) (models.ExecutionResult, error) {
	op, err := q.newOperation(kind, table, payload, ownerID)
	if err != nil {
		return models.ExecutionResult{}, err
	}
	log := q.logger.ForOperation(op)

	if !q.connectivity.IsOnline() {
		if err = q.enqueue(ctx, op); err != nil {
			return models.ExecutionResult{}, err
		}
		log.Info().Str("func", "OfflineQueue.ExecuteWithOfflineSupport").Msg("offline, operation queued")
		return models.ExecutionResult{Outcome: models.ExecutionOutcomeQueued, OperationID: op.ID}, nil
	}

	remoteErr := q.dispatch(ctx, op)
	if remoteErr == nil {
		return models.ExecutionResult{Outcome: models.ExecutionOutcomeDone}, nil
	}

	log.Warn().Err(remoteErr).
		Str("func", "OfflineQueue.ExecuteWithOfflineSupport").
		Msg("direct call failed, operation queued")

	if err = q.enqueue(ctx, op); err != nil {
		return models.ExecutionResult{RemoteErr: remoteErr}, err
	}
	return models.ExecutionResult{
		Outcome:     models.ExecutionOutcomeFailedQueued,
		OperationID: op.ID,
		RemoteErr:   remoteErr,
	}, nil
}
