package client

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/service"
	"github.com/MKhiriev/go-care-keeper/internal/tui"
	"github.com/MKhiriev/go-care-keeper/internal/workers"
)

type App struct {
	services *service.ClientServices
	workers  *workers.Workers
	ui       UI
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, workers *workers.Workers, ui UI, logger *logger.Logger) (*App, error) {
	if services == nil || services.Queue == nil || services.Status == nil || workers == nil || ui == nil {
		return nil, errMissingDependency
	}

	return &App{services: services, workers: workers, ui: ui, logger: logger}, nil
}

// Run starts the queue triggers, runs a startup pass and shows the UI. It
// returns when the UI exits or ctx is done; the triggers are stopped and
// background passes drained before it returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.workers.Start(ctx)
	defer a.shutdown()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// launching the app counts as coming to the foreground
		if err := a.workers.Foreground.OnForeground(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Str("func", "App.Run").Msg("startup queue pass failed")
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()

		err := a.ui.Run(gCtx)
		if err == nil || errors.Is(err, tui.ErrUserQuit) {
			return nil
		}
		return fmt.Errorf("ui: %w", err)
	})

	return g.Wait()
}

func (a *App) shutdown() {
	a.logger.Info().Msg("stopping client workers...")
	a.workers.Stop()
	a.services.Queue.Wait()
	a.services.Status.Close()
	a.logger.Info().Msg("client stopped")
}
