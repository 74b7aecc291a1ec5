package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-care-keeper/internal/adapter"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/models"
)

// statusUpdatesBuffer bounds the Updates channel. When the reader is slow
// the oldest pending status is replaced by the newest.
const statusUpdatesBuffer = 1

// QueueStatusService is the read side of the offline queue for the user
// interface: depth, processing flag, failed count and connectivity, plus
// the process-now, clear and export actions.
type QueueStatusService struct {
	queue        *OfflineQueue
	connectivity adapter.ConnectivityMonitor

	updates     chan models.QueueStatus
	unsubscribe []func()
	closeOnce   sync.Once
	mu          sync.Mutex
	closed      bool
	logger      *logger.Logger
}

// NewQueueStatusService subscribes to queue and connectivity changes. Close
// must be called to release the subscriptions.
func NewQueueStatusService(queue *OfflineQueue, connectivity adapter.ConnectivityMonitor, logger *logger.Logger) *QueueStatusService {
	s := &QueueStatusService{
		queue:        queue,
		connectivity: connectivity,
		updates:      make(chan models.QueueStatus, statusUpdatesBuffer),
		logger:       logger,
	}

	s.unsubscribe = append(s.unsubscribe,
		queue.Subscribe(func(depth int) {
			s.publish(context.Background(), &depth)
		}),
		connectivity.Subscribe(func(bool) {
			s.publish(context.Background(), nil)
		}),
	)
	return s
}

// Status returns the current aggregate status.
func (s *QueueStatusService) Status(ctx context.Context) (models.QueueStatus, error) {
	depth, err := s.queue.GetQueueCount(ctx)
	if err != nil {
		return models.QueueStatus{}, err
	}
	return s.status(ctx, depth)
}

func (s *QueueStatusService) status(ctx context.Context, depth int) (models.QueueStatus, error) {
	failed, err := s.queue.FailedCount(ctx)
	if err != nil {
		return models.QueueStatus{}, fmt.Errorf("count dead letters: %w", err)
	}

	return models.QueueStatus{
		Depth:      depth,
		Processing: s.queue.IsProcessing(),
		Failed:     failed,
		Online:     s.connectivity.IsOnline(),
	}, nil
}

// Updates delivers a fresh status after every queue mutation and every
// connectivity change. The channel is closed by Close.
func (s *QueueStatusService) Updates() <-chan models.QueueStatus {
	return s.updates
}

func (s *QueueStatusService) publish(ctx context.Context, depth *int) {
	var (
		st  models.QueueStatus
		err error
	)
	if depth != nil {
		st, err = s.status(ctx, *depth)
	} else {
		st, err = s.Status(ctx)
	}
	if err != nil {
		s.logger.Err(err).Str("func", "QueueStatusService.publish").Msg("failed to build queue status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for {
		select {
		case s.updates <- st:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// ProcessNow runs a pass right away. It is a no-op when offline or when a
// pass is already running.
func (s *QueueStatusService) ProcessNow(ctx context.Context) error {
	return s.queue.ProcessQueue(ctx)
}

// Clear discards every pending operation.
func (s *QueueStatusService) Clear(ctx context.Context) error {
	return s.queue.ClearQueue(ctx)
}

// ExportFailed returns the dead letters as indented JSON, ready to be copied
// into a support ticket.
func (s *QueueStatusService) ExportFailed(ctx context.Context) ([]byte, error) {
	letters, err := s.queue.ExportFailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("export dead letters: %w", err)
	}
	if letters == nil {
		letters = []models.DeadLetter{}
	}

	out, err := json.MarshalIndent(letters, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode dead letters: %w", err)
	}
	return out, nil
}

// Close removes the subscriptions and closes the Updates channel.
func (s *QueueStatusService) Close() {
	s.closeOnce.Do(func() {
		for _, unsubscribe := range s.unsubscribe {
			unsubscribe()
		}

		s.mu.Lock()
		s.closed = true
		close(s.updates)
		s.mu.Unlock()
	})
}
