package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-care-keeper/internal/adapter"
	"github.com/MKhiriev/go-care-keeper/internal/client"
	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/service"
	"github.com/MKhiriev/go-care-keeper/internal/store"
	"github.com/MKhiriev/go-care-keeper/internal/tui"
	"github.com/MKhiriev/go-care-keeper/internal/workers"
	"github.com/MKhiriev/go-care-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	log := logger.NewClientLogger("go-care-client", logDir(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warn().Err(err).Msg("unknown log level, keeping default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	localStorage, err := store.NewClientStorages(ctx, cfg.Storage, cfg.Queue, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer localStorage.Close()

	remote, err := adapter.NewRESTRemoteStore(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote store adapter")
	}

	probe, err := adapter.NewHTTPConnectivityProbe(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create connectivity probe")
	}

	services := service.NewClientServices(localStorage, remote, probe, cfg, log)

	triggers, err := workers.NewWorkers(services.Queue, probe, cfg.Workers, log, probe)
	if err != nil {
		log.Fatal().Err(err).Msg("create queue triggers")
	}

	ui, err := tui.New(services, triggers.Foreground, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, triggers, ui, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

func logDir(cfg *config.ClientConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.App.LogDir
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
