package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-care-keeper/models"
)

const idempotencyKeyHeader = "Idempotency-Key"

// insertRecord stores the body under {table}. The record id is the body's
// "id" field, falling back to the Idempotency-Key header, so a replayed
// insert is recognized and answered with 200 instead of 201.
func (h *Handler) insertRecord(w http.ResponseWriter, r *http.Request) {
	raw, payload, err := readPayload(w, r)
	if err != nil {
		writeServiceError(w, r, "*Handler.insertRecord", err)
		return
	}

	recordID, ok := payload.RecordID()
	if !ok {
		recordID = r.Header.Get(idempotencyKeyHeader)
	}
	if recordID == "" {
		writeServiceError(w, r, "*Handler.insertRecord", ErrMissingRecordID)
		return
	}

	write := models.RecordWrite{
		Collection: chi.URLParam(r, "table"),
		RecordID:   recordID,
		Payload:    raw,
	}

	created, err := h.services.RecordService.InsertRecord(r.Context(), write)
	if err != nil {
		writeServiceError(w, r, "*Handler.insertRecord", err)
		return
	}

	if created {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	raw, payload, err := readPayload(w, r)
	if err != nil {
		writeServiceError(w, r, "*Handler.updateRecord", err)
		return
	}

	recordID := chi.URLParam(r, "id")
	if bodyID, ok := payload.RecordID(); ok && bodyID != recordID {
		writeServiceError(w, r, "*Handler.updateRecord", ErrRecordIDMismatch)
		return
	}

	write := models.RecordWrite{
		Collection: chi.URLParam(r, "table"),
		RecordID:   recordID,
		Payload:    raw,
	}

	if err = h.services.RecordService.UpdateRecord(r.Context(), write); err != nil {
		writeServiceError(w, r, "*Handler.updateRecord", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	err := h.services.RecordService.DeleteRecord(r.Context(), chi.URLParam(r, "table"), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "*Handler.deleteRecord", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readPayload returns the raw body and its decoding as a JSON object.
// Numbers are kept as [json.Number] so numeric ids are not rounded.
func readPayload(w http.ResponseWriter, r *http.Request) (json.RawMessage, models.Payload, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload models.Payload
	if err = decoder.Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return json.RawMessage(body), payload, nil
}
