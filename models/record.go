// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Remote-store tables used by the care client. The queue itself treats table
// names as opaque strings.
const (
	TableVitals       = "vitals"
	TableMedications  = "medications"
	TableAppointments = "appointments"
)

// Record is a row kept by the reference remote store.
type Record struct {
	Collection string          `json:"collection"`
	RecordID   string          `json:"id"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RecordWrite is one mutation received by the reference remote store.
type RecordWrite struct {
	Collection string
	RecordID   string
	Payload    json.RawMessage
}

// VitalSign is a single measurement recorded for a care recipient.
type VitalSign struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Kind        string    `json:"kind"`
	Value       string    `json:"value"`
	Unit        string    `json:"unit,omitempty"`
	MeasuredAt  time.Time `json:"measured_at"`
}

// Medication is a prescribed medication of a care recipient.
type Medication struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	Name        string `json:"name"`
	Dose        string `json:"dose"`
	Schedule    string `json:"schedule,omitempty"`
	Active      bool   `json:"active"`
}

// Appointment is a scheduled visit for a care recipient.
type Appointment struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	Notes       string    `json:"notes,omitempty"`
}

// ToPayload converts a JSON-encodable record into a [Payload]. Numbers are
// kept as [json.Number] so identifiers survive without float rounding.
func ToPayload(record any) (Payload, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload Payload
	if err = dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("record is not a JSON object: %w", err)
	}
	return payload, nil
}
