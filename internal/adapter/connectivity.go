package adapter

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/utils"
)

const healthPath = "/health"

// stateListeners fans a connectivity change out to subscribers. A panicking
// listener is recovered so the others still run.
type stateListeners struct {
	mu     sync.Mutex
	nextID int
	items  map[int]func(bool)
	logger *logger.Logger
}

func newStateListeners(logger *logger.Logger) *stateListeners {
	return &stateListeners{items: make(map[int]func(bool)), logger: logger}
}

func (l *stateListeners) add(listener func(bool)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.items[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.items, id)
		})
	}
}

func (l *stateListeners) notify(online bool) {
	l.mu.Lock()
	snapshot := make([]func(bool), 0, len(l.items))
	for _, fn := range l.items {
		snapshot = append(snapshot, fn)
	}
	l.mu.Unlock()

	for _, fn := range snapshot {
		l.call(fn, online)
	}
}

func (l *stateListeners) call(fn func(bool), online bool) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().
				Str("func", "stateListeners.call").
				Interface("panic", r).
				Msg("connectivity listener panicked")
		}
	}()
	fn(online)
}

// ManualConnectivity is a [ConnectivityMonitor] whose state is pushed by the
// host (OS network callbacks, tests, the status console).
type ManualConnectivity struct {
	online    atomic.Bool
	listeners *stateListeners
}

// NewManualConnectivity returns a monitor starting in the given state.
func NewManualConnectivity(initial bool, logger *logger.Logger) *ManualConnectivity {
	m := &ManualConnectivity{listeners: newStateListeners(logger)}
	m.online.Store(initial)
	return m
}

func (m *ManualConnectivity) IsOnline() bool {
	return m.online.Load()
}

func (m *ManualConnectivity) Subscribe(listener func(bool)) func() {
	return m.listeners.add(listener)
}

// SetOnline stores the new state and notifies subscribers if it changed.
func (m *ManualConnectivity) SetOnline(online bool) {
	if m.online.Swap(online) == online {
		return
	}
	m.listeners.notify(online)
}

// HTTPConnectivityProbe is a [ConnectivityMonitor] that polls GET /health of
// the remote store. Any transport error or non-2xx status means offline.
type HTTPConnectivityProbe struct {
	client   *utils.HTTPClient
	interval time.Duration

	online    atomic.Bool
	listeners *stateListeners

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool

	logger *logger.Logger
}

// NewHTTPConnectivityProbe builds a probe for cfg.HTTPAddress. The probe is
// offline until the first successful check.
func NewHTTPConnectivityProbe(cfg config.ClientAdapter, logger *logger.Logger) (*HTTPConnectivityProbe, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	interval := cfg.ProbeInterval
	if interval <= 0 {
		interval = config.DefaultProbeInterval
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}

	client := utils.NewHTTPClient()
	client.SetBaseURL(baseURL).SetTimeout(timeout)

	return &HTTPConnectivityProbe{
		client:    client,
		interval:  interval,
		listeners: newStateListeners(logger),
		logger:    logger,
	}, nil
}

func (p *HTTPConnectivityProbe) IsOnline() bool {
	return p.online.Load()
}

func (p *HTTPConnectivityProbe) Subscribe(listener func(bool)) func() {
	return p.listeners.add(listener)
}

// Check runs one health probe, updates the state and notifies subscribers on
// change. It returns the new state.
func (p *HTTPConnectivityProbe) Check(ctx context.Context) bool {
	online := p.probe(ctx)
	if p.online.Swap(online) != online {
		p.logger.Info().
			Str("func", "HTTPConnectivityProbe.Check").
			Bool("online", online).
			Msg("connectivity changed")
		p.listeners.notify(online)
	}
	return online
}

func (p *HTTPConnectivityProbe) probe(ctx context.Context) bool {
	resp, err := p.client.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		p.logger.Debug().Err(err).Str("func", "HTTPConnectivityProbe.probe").Msg("health probe failed")
		return false
	}
	return resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices
}

// Start runs a first check synchronously and then polls every interval in
// the background until ctx is cancelled or Stop is called. Calling Start on a
// running probe is a no-op.
func (p *HTTPConnectivityProbe) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	probeCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true

	p.Check(probeCtx)

	p.wg.Add(1)
	go p.loop(probeCtx)
}

// Stop ends polling and waits for the background goroutine to exit.
func (p *HTTPConnectivityProbe) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	p.running = false
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
}

func (p *HTTPConnectivityProbe) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}
