package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/models"
)

// ─────────────────────────────────────────────
// NewAppInfoService
// ─────────────────────────────────────────────

func TestNewAppInfoService_ConfigVersionWins(t *testing.T) {
	svc, err := NewAppInfoService(config.App{Version: "1.0.0"}, models.NewAppBuildInfo("0.9.0", "", ""), logger.Nop())

	require.NoError(t, err)
	assert.Equal(t, "1.0.0", svc.GetAppVersion(context.Background()))
}

func TestNewAppInfoService_FallsBackToBuildInfo(t *testing.T) {
	svc, err := NewAppInfoService(config.App{}, models.NewAppBuildInfo("2.5.1", "2026-10-01", "abc123"), logger.Nop())

	require.NoError(t, err)
	assert.Equal(t, "2.5.1", svc.GetAppVersion(context.Background()))
}

func TestNewAppInfoService_NoVersion_ReturnsError(t *testing.T) {
	svc, err := NewAppInfoService(config.App{}, models.NewAppBuildInfo("N/A", "N/A", "N/A"), logger.Nop())

	assert.Nil(t, svc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionIsNotSpecified))
}
