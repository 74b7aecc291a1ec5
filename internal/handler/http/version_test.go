package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/service"
)

func newHandlerWithAppInfo(t *testing.T, svc service.AppInfoService) *Handler {
	t.Helper()
	return NewHandler(&service.Services{AppInfoService: svc}, logger.Nop())
}

func TestGetServerVersion_WritesVersion(t *testing.T) {
	const want = "v2.0.0-beta+build.42"

	h := newHandlerWithAppInfo(t, &mockAppInfoService{version: want})

	req := httptest.NewRequest(http.MethodGet, "/api/version/", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

func TestGetServerVersion_ViaRouter(t *testing.T) {
	router := newTestServer(t).router

	req := httptest.NewRequest(http.MethodGet, "/api/version/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-version", rec.Body.String())
}
