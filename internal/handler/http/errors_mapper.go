package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/service"
	"github.com/MKhiriev/go-care-keeper/internal/utils"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON:      http.StatusBadRequest,
	ErrMissingRecordID:  http.StatusBadRequest,
	ErrRecordIDMismatch: http.StatusBadRequest,

	service.ErrInvalidTable:     http.StatusBadRequest,
	service.ErrInvalidPayload:   http.StatusBadRequest,
	service.ErrRecordNotFound:   http.StatusNotFound,
	service.ErrStoreUnavailable: http.StatusServiceUnavailable,
	service.ErrInvalidToken:     http.StatusUnauthorized,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError logs err and answers with the mapped status. Internal
// errors are not echoed to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)
	logger.FromRequest(r).Err(err).Str("func", funcName).Int("status", status).Msg("request failed")

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	utils.WriteError(w, message, status)
}
