package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-care-keeper/internal/adapter"
	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/store"
	"github.com/MKhiriev/go-care-keeper/internal/utils"
	"github.com/MKhiriev/go-care-keeper/models"
)

// OfflineQueue is a durable write-behind queue of remote store mutations.
//
// Operations are appended to a single persisted snapshot and replayed in
// FIFO order whenever the device is online. A pass is single-flight: a call
// to ProcessQueue while another pass runs returns immediately. Snapshot
// read-modify-write cycles (enqueue, clear, end-of-pass merge) are
// serialized so operations enqueued during a pass are never lost.
type OfflineQueue struct {
	queue        store.QueueStore
	deadLetters  store.DeadLetterStore
	remote       adapter.RemoteStore
	connectivity adapter.ConnectivityMonitor
	cfg          config.ClientQueue

	now          func() time.Time
	newID        func() string
	onDeadLetter func(models.DeadLetter)

	processMu  sync.Mutex
	processing atomic.Bool
	snapshotMu sync.Mutex

	// inPass holds the ids loaded by the running pass. Entries evicted while
	// the pass holds them are parked in evictedInPass and settled by merge.
	// Both are guarded by snapshotMu.
	inPass        map[string]struct{}
	evictedInPass []models.QueuedOperation

	subsMu      sync.Mutex
	nextSubID   int
	subscribers map[int]func(int)

	background sync.WaitGroup

	logger *logger.Logger
}

// OfflineQueueOption customises an [OfflineQueue].
type OfflineQueueOption func(*OfflineQueue)

// WithClock replaces time.Now for enqueue and dead-letter timestamps.
func WithClock(now func() time.Time) OfflineQueueOption {
	return func(q *OfflineQueue) { q.now = now }
}

// WithIDGenerator replaces the UUIDv7 operation id generator.
func WithIDGenerator(newID func() string) OfflineQueueOption {
	return func(q *OfflineQueue) { q.newID = newID }
}

// WithDeadLetterHook registers fn to be called for every operation that
// leaves the queue without success.
func WithDeadLetterHook(fn func(models.DeadLetter)) OfflineQueueOption {
	return func(q *OfflineQueue) { q.onDeadLetter = fn }
}

// NewOfflineQueue wires the queue to its collaborators. Zero limits in cfg
// are replaced with the reference defaults.
func NewOfflineQueue(
	queue store.QueueStore,
	deadLetters store.DeadLetterStore,
	remote adapter.RemoteStore,
	connectivity adapter.ConnectivityMonitor,
	cfg config.ClientQueue,
	logger *logger.Logger,
	opts ...OfflineQueueOption,
) *OfflineQueue {
	q := &OfflineQueue{
		queue:        queue,
		deadLetters:  deadLetters,
		remote:       remote,
		connectivity: connectivity,
		cfg:          cfg.WithDefaults(),
		now:          time.Now,
		newID:        utils.NewUUIDGenerator().Generate,
		subscribers:  make(map[int]func(int)),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a new operation to the tail of the queue and persists it.
//
// When the queue is full the oldest entries are evicted first. Enqueue never
// fails for network reasons: if the device is online a process pass is
// started in the background and its outcome is not reported here. A
// returned error means the operation was not durably queued.
func (q *OfflineQueue) Enqueue(ctx context.Context, kind models.OperationKind, table string, payload models.Payload, ownerID string) (string, error) {
	op, err := q.newOperation(kind, table, payload, ownerID)
	if err != nil {
		return "", err
	}
	if err = q.enqueue(ctx, op); err != nil {
		return "", err
	}
	return op.ID, nil
}

func (q *OfflineQueue) newOperation(kind models.OperationKind, table string, payload models.Payload, ownerID string) (models.QueuedOperation, error) {
	if !kind.Valid() {
		return models.QueuedOperation{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, kind)
	}
	if strings.TrimSpace(table) == "" {
		return models.QueuedOperation{}, fmt.Errorf("%w: empty table", ErrInvalidOperation)
	}
	if payload == nil {
		payload = models.Payload{}
	}

	return models.QueuedOperation{
		ID:         q.newID(),
		Kind:       kind,
		Table:      table,
		Payload:    payload,
		EnqueuedAt: q.now().UTC(),
		OwnerID:    ownerID,
	}, nil
}

func (q *OfflineQueue) enqueue(ctx context.Context, op models.QueuedOperation) error {
	log := q.logger.ForOperation(op)

	depth, evicted, err := q.append(ctx, op)
	if err != nil {
		log.Err(err).Str("func", "OfflineQueue.enqueue").Msg("failed to persist operation")
		return err
	}

	if len(evicted) > 0 {
		letters := make([]models.DeadLetter, 0, len(evicted))
		for _, old := range evicted {
			q.logger.ForOperation(old).Warn().
				Str("func", "OfflineQueue.enqueue").
				Int("max_queue_size", q.cfg.MaxQueueSize).
				Msg("queue is full, oldest operation evicted")
			letters = append(letters, q.deadLetter(old, models.DeadLetterEvicted, nil))
		}
		q.recordDeadLetters(ctx, letters)
	}

	log.Debug().Str("func", "OfflineQueue.enqueue").Int("depth", depth).Msg("operation queued")
	q.notify(depth)

	if q.connectivity.IsOnline() {
		q.processInBackground(ctx)
	}

	return nil
}

func (q *OfflineQueue) append(ctx context.Context, op models.QueuedOperation) (int, []models.QueuedOperation, error) {
	q.snapshotMu.Lock()
	defer q.snapshotMu.Unlock()

	ops, err := q.queue.Load(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrPersistQueue, err)
	}

	var evicted, parked []models.QueuedOperation
	for len(ops) >= q.cfg.MaxQueueSize {
		if _, held := q.inPass[ops[0].ID]; held {
			parked = append(parked, ops[0])
		} else {
			evicted = append(evicted, ops[0])
		}
		ops = ops[1:]
	}
	ops = append(ops, op)

	if err = q.queue.Save(ctx, ops); err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrPersistQueue, err)
	}
	q.evictedInPass = append(q.evictedInPass, parked...)
	return len(ops), evicted, nil
}

func (q *OfflineQueue) processInBackground(ctx context.Context) {
	q.background.Add(1)
	go func() {
		defer q.background.Done()
		if err := q.ProcessQueue(context.WithoutCancel(ctx)); err != nil {
			q.logger.Err(err).Str("func", "OfflineQueue.processInBackground").Msg("background pass failed")
		}
	}()
}

// Wait blocks until every background pass started by Enqueue has finished.
func (q *OfflineQueue) Wait() {
	q.background.Wait()
}

// passResult is the outcome of handling one entry during a pass.
type passResult struct {
	removed bool
	op      models.QueuedOperation
}

// ProcessQueue replays the queue against the remote store.
//
// Entries are sent one at a time in FIFO order. Successful entries are
// removed; failed ones have their retry count incremented and are dropped
// to the dead-letter list once it reaches MaxRetries. Updates and deletes
// without a record id are dropped before any remote call. A failing entry
// never aborts the pass.
//
// If another pass is running or the device is offline ProcessQueue returns
// nil at once. Cancelling ctx stops the pass before the next entry; entries
// already handled are still persisted. The returned error is only a
// persistence failure.
func (q *OfflineQueue) ProcessQueue(ctx context.Context) error {
	if !q.processMu.TryLock() {
		q.logger.Debug().Str("func", "OfflineQueue.ProcessQueue").Msg("pass already running")
		return nil
	}
	defer q.processMu.Unlock()

	if !q.connectivity.IsOnline() {
		q.logger.Debug().Str("func", "OfflineQueue.ProcessQueue").Msg("offline, pass skipped")
		return nil
	}

	q.processing.Store(true)
	defer q.processing.Store(false)

	q.snapshotMu.Lock()
	ops, err := q.queue.Load(ctx)
	if err == nil && len(ops) > 0 {
		q.inPass = make(map[string]struct{}, len(ops))
		for _, op := range ops {
			q.inPass[op.ID] = struct{}{}
		}
	}
	q.snapshotMu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistQueue, err)
	}
	if len(ops) == 0 {
		return nil
	}

	q.logger.Info().Str("func", "OfflineQueue.ProcessQueue").Int("depth", len(ops)).Msg("processing offline queue")

	results := make(map[string]passResult, len(ops))
	var letters []models.DeadLetter
	var sent int

	for _, op := range ops {
		if ctx.Err() != nil {
			q.logger.Warn().Str("func", "OfflineQueue.ProcessQueue").Msg("pass cancelled")
			break
		}

		res, letter := q.handle(ctx, op)
		results[op.ID] = res
		if letter != nil {
			letters = append(letters, *letter)
		}
		if res.removed && letter == nil {
			sent++
		}
	}

	// dead letters are written before the entries leave the snapshot
	q.recordDeadLetters(context.WithoutCancel(ctx), letters)

	depth, evictedLetters, err := q.merge(context.WithoutCancel(ctx), results)
	q.recordDeadLetters(context.WithoutCancel(ctx), evictedLetters)
	if err != nil {
		q.logger.Err(err).Str("func", "OfflineQueue.ProcessQueue").Msg("failed to persist pass results")
		return err
	}

	q.logger.Info().
		Str("func", "OfflineQueue.ProcessQueue").
		Int("sent", sent).
		Int("dropped", len(letters)+len(evictedLetters)).
		Int("depth", depth).
		Msg("offline queue pass finished")
	q.notify(depth)

	return nil
}

func (q *OfflineQueue) handle(ctx context.Context, op models.QueuedOperation) (passResult, *models.DeadLetter) {
	log := q.logger.ForOperation(op)

	if op.Kind.RequiresRecordID() {
		if _, ok := op.Payload.RecordID(); !ok {
			log.Error().Str("func", "OfflineQueue.handle").Msg("operation has no record id, dropped")
			letter := q.deadLetter(op, models.DeadLetterMissingRecordID, ErrMissingRecordID)
			return passResult{removed: true}, &letter
		}
	}

	err := q.dispatch(ctx, op)
	if err == nil {
		log.Debug().Str("func", "OfflineQueue.handle").Msg("operation sent")
		return passResult{removed: true}, nil
	}

	op.RetryCount++
	if op.RetryCount >= q.cfg.MaxRetries {
		log.Error().Err(err).
			Str("func", "OfflineQueue.handle").
			Int("max_retries", q.cfg.MaxRetries).
			Msg("operation failed too many times, dropped")
		letter := q.deadLetter(op, models.DeadLetterRetriesExhausted, err)
		return passResult{removed: true}, &letter
	}

	log.Warn().Err(err).
		Str("func", "OfflineQueue.handle").
		Int("attempt", op.RetryCount).
		Msg("operation failed, will retry")
	return passResult{op: op}, nil
}

// dispatch runs one remote call under the per-operation timeout. The
// operation id travels as the idempotency key.
func (q *OfflineQueue) dispatch(ctx context.Context, op models.QueuedOperation) (err error) {
	callCtx, cancel := context.WithTimeout(utils.WithIdempotencyKey(ctx, op.ID), q.cfg.OperationTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRemotePanic, r)
		}
	}()

	return executeRemote(callCtx, q.remote, op.Kind, op.Table, op.Payload)
}

// merge applies pass results to the current snapshot. Entries enqueued
// during the pass are kept in place; entries removed during the pass (clear
// or eviction) stay removed.
//
// Entries evicted while the pass held them get an evicted dead letter only
// if the pass did not already remove them: a delivered or dead-lettered
// entry is not reported again.
func (q *OfflineQueue) merge(ctx context.Context, results map[string]passResult) (int, []models.DeadLetter, error) {
	q.snapshotMu.Lock()
	defer q.snapshotMu.Unlock()

	var letters []models.DeadLetter
	for _, old := range q.evictedInPass {
		res, handled := results[old.ID]
		if handled && res.removed {
			continue
		}
		if handled {
			old = res.op
		}
		q.logger.ForOperation(old).Warn().
			Str("func", "OfflineQueue.merge").
			Int("max_queue_size", q.cfg.MaxQueueSize).
			Msg("queue is full, operation evicted during pass")
		letters = append(letters, q.deadLetter(old, models.DeadLetterEvicted, nil))
	}
	q.inPass = nil
	q.evictedInPass = nil

	current, err := q.queue.Load(ctx)
	if err != nil {
		return 0, letters, fmt.Errorf("%w: %w", ErrPersistQueue, err)
	}

	merged := make([]models.QueuedOperation, 0, len(current))
	for _, op := range current {
		res, handled := results[op.ID]
		switch {
		case !handled:
			merged = append(merged, op)
		case res.removed:
		default:
			merged = append(merged, res.op)
		}
	}

	if err = q.queue.Save(ctx, merged); err != nil {
		return 0, letters, fmt.Errorf("%w: %w", ErrPersistQueue, err)
	}
	return len(merged), letters, nil
}

// GetQueueCount returns the number of pending operations.
func (q *OfflineQueue) GetQueueCount(ctx context.Context) (int, error) {
	ops, err := q.queue.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPersistQueue, err)
	}
	return len(ops), nil
}

// GetQueueCountForOwner returns the number of pending operations enqueued
// for ownerID.
func (q *OfflineQueue) GetQueueCountForOwner(ctx context.Context, ownerID string) (int, error) {
	ops, err := q.queue.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPersistQueue, err)
	}

	var n int
	for _, op := range ops {
		if op.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// ClearQueue discards every pending operation. Unsent changes are lost.
func (q *OfflineQueue) ClearQueue(ctx context.Context) error {
	q.snapshotMu.Lock()
	err := q.queue.Save(ctx, []models.QueuedOperation{})
	q.snapshotMu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistQueue, err)
	}

	q.logger.Warn().Str("func", "OfflineQueue.ClearQueue").Msg("offline queue cleared")
	q.notify(0)
	return nil
}

// IsProcessing reports whether a pass is running.
func (q *OfflineQueue) IsProcessing() bool {
	return q.processing.Load()
}

// Subscribe registers listener to receive the queue length after every
// mutation. Listeners run synchronously on the mutating goroutine; a
// panicking listener is logged and skipped.
func (q *OfflineQueue) Subscribe(listener func(depth int)) (unsubscribe func()) {
	q.subsMu.Lock()
	id := q.nextSubID
	q.nextSubID++
	q.subscribers[id] = listener
	q.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.subsMu.Lock()
			delete(q.subscribers, id)
			q.subsMu.Unlock()
		})
	}
}

func (q *OfflineQueue) notify(depth int) {
	q.subsMu.Lock()
	listeners := make([]func(int), 0, len(q.subscribers))
	for _, fn := range q.subscribers {
		listeners = append(listeners, fn)
	}
	q.subsMu.Unlock()

	for _, fn := range listeners {
		q.callListener(fn, depth)
	}
}

func (q *OfflineQueue) callListener(fn func(int), depth int) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().
				Str("func", "OfflineQueue.notify").
				Interface("panic", r).
				Msg("queue listener panicked")
		}
	}()
	fn(depth)
}

// FailedCount returns the number of dead letters.
func (q *OfflineQueue) FailedCount(ctx context.Context) (int, error) {
	return q.deadLetters.Count(ctx)
}

// ExportFailed returns all dead letters, oldest first.
func (q *OfflineQueue) ExportFailed(ctx context.Context) ([]models.DeadLetter, error) {
	return q.deadLetters.List(ctx)
}

// ClearFailed removes all dead letters.
func (q *OfflineQueue) ClearFailed(ctx context.Context) error {
	return q.deadLetters.Clear(ctx)
}

func (q *OfflineQueue) deadLetter(op models.QueuedOperation, reason models.DeadLetterReason, cause error) models.DeadLetter {
	letter := models.DeadLetter{
		Operation: op,
		Reason:    reason,
		FailedAt:  q.now().UTC(),
	}
	if cause != nil {
		letter.Error = cause.Error()
	}
	return letter
}

// recordDeadLetters persists letters and calls the hook. A failure here is
// logged only: the operations have already left the queue.
func (q *OfflineQueue) recordDeadLetters(ctx context.Context, letters []models.DeadLetter) {
	if len(letters) == 0 {
		return
	}

	if err := q.deadLetters.Append(ctx, letters...); err != nil {
		q.logger.Err(err).
			Str("func", "OfflineQueue.recordDeadLetters").
			Int("count", len(letters)).
			Msg("failed to persist dead letters")
	}

	if q.onDeadLetter == nil {
		return
	}
	for _, letter := range letters {
		q.callDeadLetterHook(letter)
	}
}

func (q *OfflineQueue) callDeadLetterHook(letter models.DeadLetter) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().
				Str("func", "OfflineQueue.recordDeadLetters").
				Interface("panic", r).
				Msg("dead letter hook panicked")
		}
	}()
	q.onDeadLetter(letter)
}

// executeRemote maps an operation kind onto the remote store call.
func executeRemote(ctx context.Context, remote adapter.RemoteStore, kind models.OperationKind, table string, payload models.Payload) error {
	switch kind {
	case models.OperationInsert:
		return remote.Insert(ctx, table, payload)
	case models.OperationUpdate:
		id, ok := payload.RecordID()
		if !ok {
			return ErrMissingRecordID
		}
		return remote.Update(ctx, table, id, payload)
	case models.OperationDelete:
		id, ok := payload.RecordID()
		if !ok {
			return ErrMissingRecordID
		}
		return remote.Delete(ctx, table, id)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, kind)
	}
}
