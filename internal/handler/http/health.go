package http

import (
	"net/http"

	"github.com/MKhiriev/go-care-keeper/internal/logger"
	"github.com/MKhiriev/go-care-keeper/internal/utils"
)

type healthResponse struct {
	Status string `json:"status"`
}

// health answers 200 while the database is reachable and 503 otherwise.
// The client's connectivity probe relies on it.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.services.RecordService.Ping(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.health").Msg("record store is unreachable")
		utils.WriteJSON(w, healthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, healthResponse{Status: "ok"}, http.StatusOK)
}
