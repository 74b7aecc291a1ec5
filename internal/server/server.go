package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/handler"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if cfg.HTTPAddress == "" || handlers == nil || handlers.HTTP == nil {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(cfg.RequestTimeout), cfg, logger),
		logger:     logger,
	}, nil
}

// RunServer serves until SIGTERM, SIGINT or SIGQUIT.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	s.run(ctx)
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}

// run serves until ctx is done and then shuts the listener down.
func (s *server) run(ctx context.Context) {
	served := make(chan struct{})

	s.logger.Info().Msg("Launching HTTP server")
	go func() {
		defer close(served)
		s.httpServer.RunServer()
	}()

	select {
	case <-ctx.Done():
		s.Shutdown()
		<-served
	case <-served:
	}

	s.logger.Info().Msg("server Shutdown gracefully")
}
