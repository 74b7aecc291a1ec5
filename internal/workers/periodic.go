package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MKhiriev/go-care-keeper/internal/adapter"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

// PeriodicTrigger asks for a pass every interval while the device is online
// and the queue has work.
type PeriodicTrigger struct {
	queue        QueueProcessor
	connectivity adapter.ConnectivityMonitor
	scheduler    *cron.Cron

	mu      sync.Mutex
	ctx     context.Context
	running bool

	logger *logger.Logger
}

// NewPeriodicTrigger schedules the trigger as "@every <interval>".
func NewPeriodicTrigger(queue QueueProcessor, connectivity adapter.ConnectivityMonitor, interval time.Duration, logger *logger.Logger) (*PeriodicTrigger, error) {
	if interval <= 0 {
		return nil, errors.New("process interval must be positive")
	}

	cronLog := cronLogger{logger: logger}
	p := &PeriodicTrigger{
		queue:        queue,
		connectivity: connectivity,
		scheduler: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ctx:    context.Background(),
		logger: logger,
	}

	if _, err := p.scheduler.AddFunc(fmt.Sprintf("@every %s", interval), p.tick); err != nil {
		return nil, fmt.Errorf("invalid process interval %s: %w", interval, err)
	}
	return p, nil
}

func (p *PeriodicTrigger) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.ctx = ctx
	p.running = true
	p.scheduler.Start()
}

// Stop halts the schedule and waits for a running tick to return.
func (p *PeriodicTrigger) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	<-p.scheduler.Stop().Done()
}

func (p *PeriodicTrigger) tick() {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()

	p.Fire(ctx)
}

// Fire runs one pass if the device is online, the queue is not empty and no
// pass is running. It reports whether a pass was requested.
func (p *PeriodicTrigger) Fire(ctx context.Context) bool {
	if ctx.Err() != nil || !p.connectivity.IsOnline() || p.queue.IsProcessing() {
		return false
	}

	depth, err := p.queue.GetQueueCount(ctx)
	if err != nil {
		p.logger.Err(err).Str("func", "PeriodicTrigger.Fire").Msg("failed to read queue depth")
		return false
	}
	if depth == 0 {
		return false
	}

	if err = p.queue.ProcessQueue(ctx); err != nil {
		p.logger.Err(err).Str("func", "PeriodicTrigger.Fire").Msg("periodic pass failed")
	}
	return true
}

// cronLogger routes cron's own logging into zerolog.
type cronLogger struct {
	logger *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.logger.Debug().Str("component", "cron").Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Err(err).Str("component", "cron").Fields(keysAndValues).Msg(msg)
}
