package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-care-keeper/internal/adapter"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

// ConnectivityTrigger runs a pass on every offline to online transition.
type ConnectivityTrigger struct {
	queue        QueueProcessor
	connectivity adapter.ConnectivityMonitor

	mu          sync.Mutex
	ctx         context.Context
	wasOnline   bool
	unsubscribe func()
	passes      sync.WaitGroup

	logger *logger.Logger
}

func NewConnectivityTrigger(queue QueueProcessor, connectivity adapter.ConnectivityMonitor, logger *logger.Logger) *ConnectivityTrigger {
	return &ConnectivityTrigger{queue: queue, connectivity: connectivity, logger: logger}
}

// Start subscribes to the monitor. The current state is the baseline: being
// online at start is not a transition.
func (c *ConnectivityTrigger) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unsubscribe != nil {
		return
	}
	c.ctx = ctx
	c.wasOnline = c.connectivity.IsOnline()
	c.unsubscribe = c.connectivity.Subscribe(c.onChange)
}

// Stop unsubscribes and waits for passes started by the trigger.
func (c *ConnectivityTrigger) Stop() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	c.passes.Wait()
}

func (c *ConnectivityTrigger) onChange(online bool) {
	c.mu.Lock()
	reconnected := online && !c.wasOnline
	c.wasOnline = online
	ctx := c.ctx
	if reconnected {
		c.passes.Add(1)
	}
	c.mu.Unlock()

	if !reconnected {
		return
	}

	c.logger.Info().Str("func", "ConnectivityTrigger.onChange").Msg("back online, processing queue")

	// Listeners run on the notifier's goroutine; the pass must not block it.
	go func() {
		defer c.passes.Done()
		if err := c.queue.ProcessQueue(ctx); err != nil {
			c.logger.Err(err).Str("func", "ConnectivityTrigger.onChange").Msg("reconnect pass failed")
		}
	}()
}
