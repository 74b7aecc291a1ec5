// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks source-independent invariants of the merged config. Role
// specific checks live in the client and server views.
func (cfg *StructuredConfig) validate() error {
	if cfg.Queue.MaxSize < 0 || cfg.Queue.MaxRetries < 0 || cfg.Queue.MaxDeadLetters < 0 {
		return ErrInvalidQueueConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.Path == "" || strings.Contains(cfg.Storage.Path, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Queue.MaxQueueSize <= 0 || cfg.Queue.MaxRetries <= 0 {
		return ErrInvalidQueueConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
