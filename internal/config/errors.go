// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid remote-store settings
	// (for example, a missing address).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN or local path).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidQueueConfigs indicates negative queue limits.
	ErrInvalidQueueConfigs = errors.New("invalid queue configuration")
	// ErrInvalidServerConfigs indicates missing listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAppConfigs indicates invalid token settings on the server.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
