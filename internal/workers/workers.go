package workers

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-care-keeper/internal/adapter"
	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

// Workers runs a fixed set of workers together.
type Workers struct {
	// Foreground is exposed so the host can report focus changes.
	Foreground *ForegroundTrigger

	workers []Worker
}

// NewWorkers builds the periodic, foreground and connectivity triggers for
// queue. Extra workers (e.g. a connectivity probe) are started first and
// stopped last.
func NewWorkers(queue QueueProcessor, connectivity adapter.ConnectivityMonitor, cfg config.ClientWorkers, logger *logger.Logger, extra ...Worker) (*Workers, error) {
	periodic, err := NewPeriodicTrigger(queue, connectivity, cfg.ProcessInterval, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating periodic trigger: %w", err)
	}
	foreground := NewForegroundTrigger(queue, connectivity, logger)

	workers := append([]Worker{}, extra...)
	workers = append(workers,
		NewConnectivityTrigger(queue, connectivity, logger),
		periodic,
		foreground,
	)

	return &Workers{Foreground: foreground, workers: workers}, nil
}

// Start starts every worker in order.
func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops every worker in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
