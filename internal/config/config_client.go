// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// Reference values for the offline queue and its triggers.
const (
	DefaultMaxQueueSize     = 100
	DefaultMaxRetries       = 3
	DefaultMaxDeadLetters   = 100
	DefaultOperationTimeout = 15 * time.Second
	DefaultProcessInterval  = 30 * time.Second
	DefaultProbeInterval    = 10 * time.Second
	DefaultRequestTimeout   = 10 * time.Second
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	LogLevel string
	LogDir   string
	// OwnerID is attached to every operation queued by this client.
	OwnerID string
}

// ClientQueue holds the offline queue limits.
type ClientQueue struct {
	MaxQueueSize     int
	MaxRetries       int
	MaxDeadLetters   int
	OperationTimeout time.Duration
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the remote store base URL.
	HTTPAddress string
	// APIKey is sent as a bearer token.
	APIKey string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// ProbeInterval is the connectivity probe period.
	ProbeInterval time.Duration
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// Path is the SQLite file holding the durable queue.
	Path string
}

// ClientWorkers contains client trigger settings.
type ClientWorkers struct {
	// ProcessInterval defines how often the timer trigger fires.
	ProcessInterval time.Duration
}

// ClientConfig is the client view assembled from [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Queue   ClientQueue
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
}

// GetClientConfig loads the merged configuration, maps the fields used by the
// client, fills unset values with the reference defaults and validates the
// result.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps cfg to a [ClientConfig] and applies defaults.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		App: ClientApp{
			LogLevel: cfg.App.LogLevel,
			LogDir:   cfg.App.LogDir,
			OwnerID:  cfg.App.OwnerID,
		},
		Queue: ClientQueue{
			MaxQueueSize:     cfg.Queue.MaxSize,
			MaxRetries:       cfg.Queue.MaxRetries,
			MaxDeadLetters:   cfg.Queue.MaxDeadLetters,
			OperationTimeout: cfg.Queue.OperationTimeout,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			APIKey:         cfg.Adapter.APIKey,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			ProbeInterval:  cfg.Adapter.ProbeInterval,
		},
		Storage: ClientStorage{Path: cfg.Storage.Local.Path},
		Workers: ClientWorkers{ProcessInterval: cfg.Workers.ProcessInterval},
	}
	clientCfg.Queue = clientCfg.Queue.WithDefaults()

	if clientCfg.Adapter.RequestTimeout == 0 {
		clientCfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if clientCfg.Adapter.ProbeInterval == 0 {
		clientCfg.Adapter.ProbeInterval = DefaultProbeInterval
	}
	if clientCfg.Workers.ProcessInterval == 0 {
		clientCfg.Workers.ProcessInterval = DefaultProcessInterval
	}

	return clientCfg
}

// WithDefaults returns q with zero or negative limits replaced by the
// reference values.
func (q ClientQueue) WithDefaults() ClientQueue {
	if q.MaxQueueSize <= 0 {
		q.MaxQueueSize = DefaultMaxQueueSize
	}
	if q.MaxRetries <= 0 {
		q.MaxRetries = DefaultMaxRetries
	}
	if q.MaxDeadLetters <= 0 {
		q.MaxDeadLetters = DefaultMaxDeadLetters
	}
	if q.OperationTimeout <= 0 {
		q.OperationTimeout = DefaultOperationTimeout
	}
	return q
}
