// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter holds the client side of the remote world: the remote data
// store the offline queue reconciles with and the connectivity oracle that
// tells the queue when the network is usable.
//
// The REST implementation of [RemoteStore] talks to a PostgREST-like API
// (POST/PATCH/DELETE /rest/v1/{table}). Non-2xx statuses are mapped to the
// sentinel errors in errors.go so callers can use [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-care-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteStore is the remote data store organised in named tables.
// Every failure is reported as an error; the offline queue treats all of
// them as transient.
type RemoteStore interface {
	// Insert creates a record from payload in table.
	Insert(ctx context.Context, table string, payload models.Payload) error
	// Update modifies the record id in table with payload.
	Update(ctx context.Context, table, id string, payload models.Payload) error
	// Delete removes the record id from table.
	Delete(ctx context.Context, table, id string) error
}

// ConnectivityMonitor reports whether the network is usable.
type ConnectivityMonitor interface {
	// IsOnline returns the last known connectivity state.
	IsOnline() bool
	// Subscribe registers listener for state changes. The listener receives
	// the new state. The returned func removes the subscription.
	Subscribe(listener func(online bool)) (unsubscribe func())
}
