package service

import (
	"fmt"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/store"
	"github.com/MKhiriev/go-care-keeper/models"
)

// Services groups the services of the reference remote store.
type Services struct {
	RecordService  RecordService
	TokenService   TokenService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	recordService := NewRecordValidationService().
		Wrap(NewRecordService(storages.RecordRepository, logger))

	return &Services{
		RecordService:  recordService,
		TokenService:   NewTokenService(cfg.App, logger),
		AppInfoService: appInfoService,
	}, nil
}
