package workers

import (
	"context"

	"github.com/MKhiriev/go-care-keeper/internal/adapter"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

// ForegroundTrigger runs a pass when the host reports that the application
// became active. It owns no goroutines.
type ForegroundTrigger struct {
	queue        QueueProcessor
	connectivity adapter.ConnectivityMonitor

	logger *logger.Logger
}

func NewForegroundTrigger(queue QueueProcessor, connectivity adapter.ConnectivityMonitor, logger *logger.Logger) *ForegroundTrigger {
	return &ForegroundTrigger{queue: queue, connectivity: connectivity, logger: logger}
}

func (f *ForegroundTrigger) Start(context.Context) {}

func (f *ForegroundTrigger) Stop() {}

// OnForeground processes the queue if the device is online. It blocks until
// the pass is over.
func (f *ForegroundTrigger) OnForeground(ctx context.Context) error {
	if !f.connectivity.IsOnline() {
		return nil
	}

	f.logger.Debug().Str("func", "ForegroundTrigger.OnForeground").Msg("app in foreground, processing queue")
	return f.queue.ProcessQueue(ctx)
}
