package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/handler"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/server"
	"github.com/MKhiriev/go-care-keeper/internal/service"
	"github.com/MKhiriev/go-care-keeper/internal/store"
	"github.com/MKhiriev/go-care-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("go-care-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warn().Err(err).Msg("unknown log level, keeping default")
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Dur("request_timeout", cfg.Server.RequestTimeout).Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
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
