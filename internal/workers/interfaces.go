// Package workers starts offline queue passes in response to outside events:
// a periodic timer, the application returning to the foreground and the
// device going back online.
//
// Every trigger only asks the queue for a pass. Whether a pass actually runs
// (online, not already processing) is decided by the queue itself, so
// triggers may fire as often as they like.
package workers

import "context"

// Worker is a background component with an explicit lifecycle.
//
// Start must not block for the lifetime of the worker: long-running work is
// done in goroutines owned by the implementation. Stop releases them and
// waits until they have exited.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Start(ctx context.Context) {
//	    ctx, w.cancel = context.WithCancel(ctx)
//	    go loop(ctx)
//	}
//
//	func (w *MyWorker) Stop() { w.cancel() }
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// QueueProcessor is the part of the offline queue the triggers drive.
type QueueProcessor interface {
	ProcessQueue(ctx context.Context) error
	GetQueueCount(ctx context.Context) (int, error)
	IsProcessing() bool
}
