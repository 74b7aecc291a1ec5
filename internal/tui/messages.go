package tui

import (
	"github.com/MKhiriev/go-care-keeper/models"
)

type statusLoadedMsg struct {
	status models.QueueStatus
	err    error
}

// statusUpdateMsg carries one value from the Updates channel. ok is false
// once the channel is closed.
type statusUpdateMsg struct {
	status models.QueueStatus
	ok     bool
}

type processDoneMsg struct {
	err error
}

type clearDoneMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type vitalSavedMsg struct {
	result models.ExecutionResult
	err    error
}

type foregroundDoneMsg struct {
	err error
}

type clearStatusMsg struct{}
