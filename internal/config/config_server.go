// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// Reference values for the remote store server.
const (
	DefaultServerRequestTimeout = 30 * time.Second
	DefaultTokenDuration        = 30 * 24 * time.Hour
)

// ServerConfig is the view used by the reference remote store.
type ServerConfig struct {
	App     App
	Server  Server
	Storage DB
}

// GetServerConfig loads the merged configuration and maps the fields used by
// the reference remote store.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App:     cfg.App,
		Server:  cfg.Server,
		Storage: cfg.Storage.DB,
	}
	if serverCfg.Server.RequestTimeout == 0 {
		serverCfg.Server.RequestTimeout = DefaultServerRequestTimeout
	}
	if serverCfg.App.TokenDuration == 0 {
		serverCfg.App.TokenDuration = DefaultTokenDuration
	}

	return serverCfg, serverCfg.validate()
}
