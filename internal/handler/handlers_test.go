package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-keeper/internal/config"
	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/service"
)

// TestNewHandlers_HTTPAddress verifies that the HTTP handler is created when
// an address is configured.
func TestNewHandlers_HTTPAddress(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, config.Server{HTTPAddress: ":8080"}, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h)
	assert.NotNil(t, h.HTTP)
}

// TestNewHandlers_NoAddress verifies that NewHandlers fails without an
// address.
func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, config.Server{}, logger.Nop())

	require.ErrorIs(t, err, errNoHandlersAreCreated)
	assert.Nil(t, h)
}

// TestNewHandlers_IndependentInstances verifies that two calls produce
// independent handlers.
func TestNewHandlers_IndependentInstances(t *testing.T) {
	cfg := config.Server{HTTPAddress: ":8080"}

	h1, err1 := NewHandlers(&service.Services{}, cfg, logger.Nop())
	h2, err2 := NewHandlers(&service.Services{}, cfg, logger.Nop())

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotSame(t, h1.HTTP, h2.HTTP)
}
