package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-care-keeper/internal/adapter"
	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/mock"
	"github.com/MKhiriev/go-care-keeper/internal/store"
	"github.com/MKhiriev/go-care-keeper/internal/utils"
	"github.com/MKhiriev/go-care-keeper/models"
)

var (
	errRemoteDown = errors.New("remote store down")
	fixedClock    = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
)

type queueFixture struct {
	queue        *OfflineQueue
	remote       *mock.MockRemoteStore
	connectivity *adapter.ManualConnectivity
	storages     *store.ClientStorages
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("op-%d", n.Add(1))
	}
}

func newQueueFixture(t *testing.T, online bool, cfg config.ClientQueue, opts ...OfflineQueueOption) *queueFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteStore(ctrl)
	conn := adapter.NewManualConnectivity(online, logger.Nop())
	storages := store.NewClientStoragesFromKV(store.NewMemoryKeyValueStorage(), cfg.WithDefaults())

	opts = append([]OfflineQueueOption{
		WithClock(func() time.Time { return fixedClock }),
		WithIDGenerator(sequentialIDs()),
	}, opts...)

	q := NewOfflineQueue(storages.Queue, storages.DeadLetters, remote, conn, cfg, logger.Nop(), opts...)
	t.Cleanup(q.Wait)

	return &queueFixture{queue: q, remote: remote, connectivity: conn, storages: storages}
}

func (f *queueFixture) pending(t *testing.T) []models.QueuedOperation {
	t.Helper()
	ops, err := f.storages.Queue.Load(context.Background())
	require.NoError(t, err)
	return ops
}

func (f *queueFixture) deadLetters(t *testing.T) []models.DeadLetter {
	t.Helper()
	letters, err := f.storages.DeadLetters.List(context.Background())
	require.NoError(t, err)
	return letters
}

func mustEnqueue(t *testing.T, q *OfflineQueue, kind models.OperationKind, table string, payload models.Payload) string {
	t.Helper()
	id, err := q.Enqueue(context.Background(), kind, table, payload, "owner-1")
	require.NoError(t, err)
	return id
}

// ─────────────────────────────────────────────
// Enqueue
// ─────────────────────────────────────────────

func TestOfflineQueue_Enqueue_Offline_PersistsInOrder(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	mustEnqueue(t, f.queue, models.OperationUpdate, models.TableMedications, models.Payload{"id": "m1"})
	mustEnqueue(t, f.queue, models.OperationDelete, models.TableAppointments, models.Payload{"id": "a1"})

	ops := f.pending(t)
	require.Len(t, ops, 3)
	assert.Equal(t, []string{"op-1", "op-2", "op-3"}, []string{ops[0].ID, ops[1].ID, ops[2].ID})
	assert.Equal(t, models.OperationInsert, ops[0].Kind)
	assert.Equal(t, models.TableVitals, ops[0].Table)
	assert.Equal(t, fixedClock, ops[0].EnqueuedAt)
	assert.Equal(t, "owner-1", ops[0].OwnerID)
	assert.Zero(t, ops[0].RetryCount)

	count, err := f.queue.GetQueueCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestOfflineQueue_Enqueue_InvalidOperation(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	_, err := f.queue.Enqueue(context.Background(), models.OperationKind("upsert"), models.TableVitals, nil, "")
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = f.queue.Enqueue(context.Background(), models.OperationInsert, "  ", nil, "")
	assert.ErrorIs(t, err, ErrInvalidOperation)

	assert.Empty(t, f.pending(t))
}

func TestOfflineQueue_Enqueue_NilPayloadStoredAsEmptyObject(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, nil)

	ops := f.pending(t)
	require.Len(t, ops, 1)
	assert.NotNil(t, ops[0].Payload)
}

func TestOfflineQueue_Enqueue_FullQueueEvictsOldest(t *testing.T) {
	var hooked []models.DeadLetter
	f := newQueueFixture(t, false, config.ClientQueue{MaxQueueSize: 2},
		WithDeadLetterHook(func(l models.DeadLetter) { hooked = append(hooked, l) }))

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v3"})

	ops := f.pending(t)
	require.Len(t, ops, 2)
	assert.Equal(t, "op-2", ops[0].ID)
	assert.Equal(t, "op-3", ops[1].ID)

	letters := f.deadLetters(t)
	require.Len(t, letters, 1)
	assert.Equal(t, models.DeadLetterEvicted, letters[0].Reason)
	assert.Equal(t, "op-1", letters[0].Operation.ID)
	assert.Equal(t, fixedClock, letters[0].FailedAt)

	require.Len(t, hooked, 1)
	assert.Equal(t, "op-1", hooked[0].Operation.ID)
}

func TestOfflineQueue_Enqueue_PersistenceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueStore := mock.NewMockQueueStore(ctrl)
	queueStore.EXPECT().Load(gomock.Any()).Return(nil, store.ErrReadingStorage)

	q := NewOfflineQueue(queueStore, mock.NewMockDeadLetterStore(ctrl), mock.NewMockRemoteStore(ctrl),
		adapter.NewManualConnectivity(false, logger.Nop()), config.ClientQueue{}, logger.Nop())

	id, err := q.Enqueue(context.Background(), models.OperationInsert, models.TableVitals, models.Payload{}, "")

	assert.Empty(t, id)
	assert.ErrorIs(t, err, ErrPersistQueue)
	assert.ErrorIs(t, err, store.ErrReadingStorage)
}

func TestOfflineQueue_Enqueue_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueStore := mock.NewMockQueueStore(ctrl)
	queueStore.EXPECT().Load(gomock.Any()).Return(nil, nil)
	queueStore.EXPECT().Save(gomock.Any(), gomock.Len(1)).Return(store.ErrWritingStorage)

	var notified atomic.Bool
	q := NewOfflineQueue(queueStore, mock.NewMockDeadLetterStore(ctrl), mock.NewMockRemoteStore(ctrl),
		adapter.NewManualConnectivity(false, logger.Nop()), config.ClientQueue{}, logger.Nop())
	q.Subscribe(func(int) { notified.Store(true) })

	_, err := q.Enqueue(context.Background(), models.OperationInsert, models.TableVitals, models.Payload{}, "")

	assert.ErrorIs(t, err, ErrPersistQueue)
	assert.False(t, notified.Load(), "listeners must not see a write that was not persisted")
}

func TestOfflineQueue_Enqueue_OnlineStartsBackgroundPass(t *testing.T) {
	f := newQueueFixture(t, true, config.ClientQueue{})
	f.remote.EXPECT().Insert(gomock.Any(), models.TableVitals, gomock.Any()).Return(nil)

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	f.queue.Wait()

	assert.Empty(t, f.pending(t))
}

func TestOfflineQueue_Enqueue_OnlineRemoteFailureStillQueued(t *testing.T) {
	f := newQueueFixture(t, true, config.ClientQueue{})
	f.remote.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(errRemoteDown)

	id, err := f.queue.Enqueue(context.Background(), models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"}, "")
	require.NoError(t, err)
	f.queue.Wait()

	ops := f.pending(t)
	require.Len(t, ops, 1)
	assert.Equal(t, id, ops[0].ID)
	assert.Equal(t, 1, ops[0].RetryCount)
}

func TestOfflineQueue_GetQueueCountForOwner(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	for _, owner := range []string{"alice", "bob", "alice", ""} {
		_, err := f.queue.Enqueue(context.Background(), models.OperationInsert, models.TableVitals, models.Payload{}, owner)
		require.NoError(t, err)
	}

	tests := []struct {
		owner string
		want  int
	}{
		{owner: "alice", want: 2},
		{owner: "bob", want: 1},
		{owner: "carol", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.owner, func(t *testing.T) {
			got, err := f.queue.GetQueueCountForOwner(context.Background(), tt.owner)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ─────────────────────────────────────────────
// ProcessQueue
// ─────────────────────────────────────────────

func TestOfflineQueue_ProcessQueue_SendsInFIFOOrder(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	mustEnqueue(t, f.queue, models.OperationUpdate, models.TableMedications, models.Payload{"id": "m1", "dose": "5mg"})
	mustEnqueue(t, f.queue, models.OperationDelete, models.TableAppointments, models.Payload{"id": "a1"})

	gomock.InOrder(
		f.remote.EXPECT().Insert(gomock.Any(), models.TableVitals, models.Payload{"id": "v1"}).Return(nil),
		f.remote.EXPECT().Update(gomock.Any(), models.TableMedications, "m1", models.Payload{"id": "m1", "dose": "5mg"}).Return(nil),
		f.remote.EXPECT().Delete(gomock.Any(), models.TableAppointments, "a1").Return(nil),
	)

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	assert.Empty(t, f.pending(t))
	assert.Empty(t, f.deadLetters(t))
	assert.False(t, f.queue.IsProcessing())
}

func TestOfflineQueue_ProcessQueue_Offline_NoOp(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})

	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	assert.Len(t, f.pending(t), 1)
}

func TestOfflineQueue_ProcessQueue_EmptyQueue(t *testing.T) {
	f := newQueueFixture(t, true, config.ClientQueue{})

	var calls atomic.Int32
	f.queue.Subscribe(func(int) { calls.Add(1) })

	require.NoError(t, f.queue.ProcessQueue(context.Background()))
	assert.Zero(t, calls.Load())
}

func TestOfflineQueue_ProcessQueue_FailureDoesNotAbortPass(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})

	gomock.InOrder(
		f.remote.EXPECT().Insert(gomock.Any(), models.TableVitals, models.Payload{"id": "v1"}).Return(errRemoteDown),
		f.remote.EXPECT().Insert(gomock.Any(), models.TableVitals, models.Payload{"id": "v2"}).Return(nil),
	)

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	ops := f.pending(t)
	require.Len(t, ops, 1)
	assert.Equal(t, "op-1", ops[0].ID)
	assert.Equal(t, 1, ops[0].RetryCount)
}

func TestOfflineQueue_ProcessQueue_RetriesExhausted(t *testing.T) {
	var hooked []models.DeadLetter
	f := newQueueFixture(t, false, config.ClientQueue{MaxRetries: 3},
		WithDeadLetterHook(func(l models.DeadLetter) { hooked = append(hooked, l) }))

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	f.remote.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(errRemoteDown).Times(3)
	f.connectivity.SetOnline(true)

	for attempt := 1; attempt <= 2; attempt++ {
		require.NoError(t, f.queue.ProcessQueue(context.Background()))
		ops := f.pending(t)
		require.Len(t, ops, 1)
		assert.Equal(t, attempt, ops[0].RetryCount)
	}

	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	assert.Empty(t, f.pending(t))
	letters := f.deadLetters(t)
	require.Len(t, letters, 1)
	assert.Equal(t, models.DeadLetterRetriesExhausted, letters[0].Reason)
	assert.Equal(t, 3, letters[0].Operation.RetryCount)
	assert.Contains(t, letters[0].Error, errRemoteDown.Error())
	assert.Len(t, hooked, 1)

	failed, err := f.queue.FailedCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
}

func TestOfflineQueue_ProcessQueue_MissingRecordIDDroppedWithoutRemoteCall(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	mustEnqueue(t, f.queue, models.OperationUpdate, models.TableMedications, models.Payload{"dose": "5mg"})
	mustEnqueue(t, f.queue, models.OperationDelete, models.TableAppointments, models.Payload{"id": ""})

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	assert.Empty(t, f.pending(t))
	letters := f.deadLetters(t)
	require.Len(t, letters, 2)
	for _, l := range letters {
		assert.Equal(t, models.DeadLetterMissingRecordID, l.Reason)
		assert.Zero(t, l.Operation.RetryCount)
	}
}

func TestOfflineQueue_ProcessQueue_NumericRecordID(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	mustEnqueue(t, f.queue, models.OperationDelete, models.TableAppointments, models.Payload{"id": 42})
	f.remote.EXPECT().Delete(gomock.Any(), models.TableAppointments, "42").Return(nil)

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))
	assert.Empty(t, f.pending(t))
}

func TestOfflineQueue_ProcessQueue_LargeIntegerSurvivesSnapshot(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	const bigID int64 = 1<<53 + 1
	mustEnqueue(t, f.queue, models.OperationDelete, models.TableAppointments, models.Payload{"id": bigID})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals,
		models.Payload{"id": "v1", "device_serial": bigID})

	gomock.InOrder(
		f.remote.EXPECT().Delete(gomock.Any(), models.TableAppointments, "9007199254740993").Return(nil),
		f.remote.EXPECT().Insert(gomock.Any(), models.TableVitals, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, payload models.Payload) error {
				assert.Equal(t, json.Number("9007199254740993"), payload["device_serial"])
				return nil
			}),
	)

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))
	assert.Empty(t, f.pending(t))
}

func TestOfflineQueue_ProcessQueue_RemotePanicCountsAsFailure(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	f.remote.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, models.Payload) error { panic("boom") })

	f.connectivity.SetOnline(true)
	require.NotPanics(t, func() {
		require.NoError(t, f.queue.ProcessQueue(context.Background()))
	})

	ops := f.pending(t)
	require.Len(t, ops, 1)
	assert.Equal(t, 1, ops[0].RetryCount)
	assert.False(t, f.queue.IsProcessing())
}

func TestOfflineQueue_ProcessQueue_CallCarriesIdempotencyKeyAndDeadline(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{OperationTimeout: time.Minute})

	id := mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	f.remote.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ models.Payload) error {
			key, ok := utils.GetIdempotencyKeyFromContext(ctx)
			assert.True(t, ok)
			assert.Equal(t, id, key)

			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
			return nil
		})

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))
}

func TestOfflineQueue_ProcessQueue_CancelledContextStopsBeforeNextEntry(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})

	ctx, cancel := context.WithCancel(context.Background())
	f.remote.EXPECT().Insert(gomock.Any(), gomock.Any(), models.Payload{"id": "v1"}).
		DoAndReturn(func(context.Context, string, models.Payload) error {
			cancel()
			return nil
		})

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(ctx))

	ops := f.pending(t)
	require.Len(t, ops, 1)
	assert.Equal(t, "op-2", ops[0].ID)
	assert.Zero(t, ops[0].RetryCount)
}

func TestOfflineQueue_ProcessQueue_SingleFlight(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})

	release := make(chan struct{})
	f.remote.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, models.Payload) error {
			<-release
			return nil
		}).Times(1)

	f.connectivity.SetOnline(true)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, f.queue.ProcessQueue(context.Background()))
	}()

	require.Eventually(t, f.queue.IsProcessing, time.Second, time.Millisecond)

	// a concurrent pass returns at once without touching the remote store
	require.NoError(t, f.queue.ProcessQueue(context.Background()))
	assert.True(t, f.queue.IsProcessing())

	close(release)
	wg.Wait()

	assert.False(t, f.queue.IsProcessing())
	assert.Empty(t, f.pending(t))
}

func TestOfflineQueue_ProcessQueue_KeepsOperationsEnqueuedDuringPass(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})

	f.remote.EXPECT().Insert(gomock.Any(), gomock.Any(), models.Payload{"id": "v1"}).
		DoAndReturn(func(context.Context, string, models.Payload) error {
			f.connectivity.SetOnline(false)
			mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})
			return nil
		})

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	ops := f.pending(t)
	require.Len(t, ops, 1)
	assert.Equal(t, "op-2", ops[0].ID)
	assert.Equal(t, models.Payload{"id": "v2"}, ops[0].Payload)
}

func TestOfflineQueue_ProcessQueue_ClearDuringPassStaysCleared(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})

	f.remote.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, models.Payload) error {
			require.NoError(t, f.queue.ClearQueue(context.Background()))
			return errRemoteDown
		})

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	assert.Empty(t, f.pending(t))
}

func TestOfflineQueue_ProcessQueue_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueStore := mock.NewMockQueueStore(ctrl)
	queueStore.EXPECT().Load(gomock.Any()).Return(nil, store.ErrCorruptedSnapshot)

	q := NewOfflineQueue(queueStore, mock.NewMockDeadLetterStore(ctrl), mock.NewMockRemoteStore(ctrl),
		adapter.NewManualConnectivity(true, logger.Nop()), config.ClientQueue{}, logger.Nop())

	err := q.ProcessQueue(context.Background())

	assert.ErrorIs(t, err, ErrPersistQueue)
	assert.False(t, q.IsProcessing())
}

func TestOfflineQueue_ProcessQueue_DeadLetterPersistFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	queueStore := store.NewQueueStore(store.NewMemoryKeyValueStorage())
	deadLetters := mock.NewMockDeadLetterStore(ctrl)
	deadLetters.EXPECT().Append(gomock.Any(), gomock.Any()).Return(store.ErrWritingStorage)

	conn := adapter.NewManualConnectivity(false, logger.Nop())
	q := NewOfflineQueue(queueStore, deadLetters, mock.NewMockRemoteStore(ctrl), conn, config.ClientQueue{}, logger.Nop())
	_, err := q.Enqueue(context.Background(), models.OperationDelete, models.TableAppointments, models.Payload{}, "")
	require.NoError(t, err)

	conn.SetOnline(true)
	require.NoError(t, q.ProcessQueue(context.Background()))

	ops, err := queueStore.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ops)
}

// keyOrderKV records the order of Set calls per key.
type keyOrderKV struct {
	store.KeyValueStorage
	mu   sync.Mutex
	sets []string
}

func (k *keyOrderKV) Set(ctx context.Context, key string, value []byte) error {
	k.mu.Lock()
	k.sets = append(k.sets, key)
	k.mu.Unlock()
	return k.KeyValueStorage.Set(ctx, key, value)
}

func TestOfflineQueue_ProcessQueue_DeadLettersWrittenBeforeQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := &keyOrderKV{KeyValueStorage: store.NewMemoryKeyValueStorage()}
	storages := store.NewClientStoragesFromKV(kv, config.ClientQueue{}.WithDefaults())

	conn := adapter.NewManualConnectivity(false, logger.Nop())
	q := NewOfflineQueue(storages.Queue, storages.DeadLetters, mock.NewMockRemoteStore(ctrl), conn,
		config.ClientQueue{}, logger.Nop(), WithIDGenerator(sequentialIDs()))
	_, err := q.Enqueue(context.Background(), models.OperationDelete, models.TableAppointments, models.Payload{}, "")
	require.NoError(t, err)

	kv.sets = nil
	conn.SetOnline(true)
	require.NoError(t, q.ProcessQueue(context.Background()))

	assert.Equal(t, []string{store.DeadLettersKey, store.QueueKey}, kv.sets)
}

// ─────────────────────────────────────────────
// Eviction while a pass holds the entry
// ─────────────────────────────────────────────

func TestOfflineQueue_EvictedDuringPass_DeliveredIsNotDeadLettered(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{MaxQueueSize: 1})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})

	f.remote.EXPECT().Insert(gomock.Any(), models.TableVitals, models.Payload{"id": "v1"}).
		DoAndReturn(func(context.Context, string, models.Payload) error {
			// offline again, so the enqueue below starts no pass of its own
			f.connectivity.SetOnline(false)
			mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})
			return nil
		})

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	ops := f.pending(t)
	require.Len(t, ops, 1)
	assert.Equal(t, "op-2", ops[0].ID)
	assert.Empty(t, f.deadLetters(t))
}

func TestOfflineQueue_EvictedDuringPass_FailedIsDeadLetteredOnce(t *testing.T) {
	var hooked []models.DeadLetter
	f := newQueueFixture(t, false, config.ClientQueue{MaxQueueSize: 1},
		WithDeadLetterHook(func(l models.DeadLetter) { hooked = append(hooked, l) }))
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})

	f.remote.EXPECT().Insert(gomock.Any(), models.TableVitals, models.Payload{"id": "v1"}).
		DoAndReturn(func(context.Context, string, models.Payload) error {
			f.connectivity.SetOnline(false)
			mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})
			return errRemoteDown
		})

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	ops := f.pending(t)
	require.Len(t, ops, 1)
	assert.Equal(t, "op-2", ops[0].ID)

	letters := f.deadLetters(t)
	require.Len(t, letters, 1)
	assert.Equal(t, "op-1", letters[0].Operation.ID)
	assert.Equal(t, models.DeadLetterEvicted, letters[0].Reason)
	assert.Equal(t, 1, letters[0].Operation.RetryCount, "carries the attempt made in the pass")
	assert.Len(t, hooked, 1)
}

func TestOfflineQueue_EvictedDuringPass_ExhaustedHasSingleLetter(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{MaxQueueSize: 1, MaxRetries: 1})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})

	f.remote.EXPECT().Insert(gomock.Any(), models.TableVitals, models.Payload{"id": "v1"}).
		DoAndReturn(func(context.Context, string, models.Payload) error {
			f.connectivity.SetOnline(false)
			mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})
			return errRemoteDown
		})

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	letters := f.deadLetters(t)
	require.Len(t, letters, 1)
	assert.Equal(t, "op-1", letters[0].Operation.ID)
	assert.Equal(t, models.DeadLetterRetriesExhausted, letters[0].Reason)
}

func TestOfflineQueue_Enqueue_NegativeLimitsUseDefaults(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{MaxQueueSize: -1, MaxRetries: -1})

	require.NotPanics(t, func() {
		mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
		mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})
	})

	assert.Len(t, f.pending(t), 2)
	assert.Empty(t, f.deadLetters(t))
}

func TestOfflineQueue_EvictedOutsidePass_IsDeadLetteredAtOnce(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{MaxQueueSize: 1})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})

	f.remote.EXPECT().Insert(gomock.Any(), models.TableVitals, models.Payload{"id": "v1"}).Return(nil)
	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))
	f.connectivity.SetOnline(false)

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v3"})

	letters := f.deadLetters(t)
	require.Len(t, letters, 1)
	assert.Equal(t, "op-2", letters[0].Operation.ID)
	assert.Equal(t, models.DeadLetterEvicted, letters[0].Reason)
}

// ─────────────────────────────────────────────
// ClearQueue / Subscribe
// ─────────────────────────────────────────────

func TestOfflineQueue_ClearQueue(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})

	var depths []int
	f.queue.Subscribe(func(depth int) { depths = append(depths, depth) })

	require.NoError(t, f.queue.ClearQueue(context.Background()))

	assert.Empty(t, f.pending(t))
	assert.Equal(t, []int{0}, depths)
	assert.Empty(t, f.deadLetters(t), "cleared operations are not dead letters")
}

func TestOfflineQueue_Subscribe_ReceivesDepth(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	var depths []int
	unsubscribe := f.queue.Subscribe(func(depth int) { depths = append(depths, depth) })

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})

	unsubscribe()
	unsubscribe()
	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v3"})

	assert.Equal(t, []int{1, 2}, depths)
}

func TestOfflineQueue_Subscribe_PanickingListenerIsIsolated(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})

	var got []int
	f.queue.Subscribe(func(int) { panic("listener bug") })
	f.queue.Subscribe(func(depth int) { got = append(got, depth) })

	require.NotPanics(t, func() {
		mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	})

	assert.Equal(t, []int{1}, got)
	assert.Len(t, f.pending(t), 1)
}

func TestOfflineQueue_DeadLetterHookPanicIsIsolated(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{MaxQueueSize: 1},
		WithDeadLetterHook(func(models.DeadLetter) { panic("hook bug") }))

	mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v1"})
	require.NotPanics(t, func() {
		mustEnqueue(t, f.queue, models.OperationInsert, models.TableVitals, models.Payload{"id": "v2"})
	})

	assert.Len(t, f.deadLetters(t), 1)
}

func TestOfflineQueue_ExportAndClearFailed(t *testing.T) {
	f := newQueueFixture(t, false, config.ClientQueue{})
	mustEnqueue(t, f.queue, models.OperationDelete, models.TableAppointments, models.Payload{})

	f.connectivity.SetOnline(true)
	require.NoError(t, f.queue.ProcessQueue(context.Background()))

	letters, err := f.queue.ExportFailed(context.Background())
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, models.DeadLetterMissingRecordID, letters[0].Reason)
	assert.Equal(t, ErrMissingRecordID.Error(), letters[0].Error)

	require.NoError(t, f.queue.ClearFailed(context.Background()))
	failed, err := f.queue.FailedCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, failed)
}
