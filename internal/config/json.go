// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON-friendly field
// names and string durations ("30s", "1h").
type StructuredJSONConfig struct {
	App struct {
		LogLevel      string   `json:"log_level"`
		LogDir        string   `json:"log_dir"`
		OwnerID       string   `json:"owner_id"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
	} `json:"app,omitempty"`

	Queue struct {
		MaxSize          int      `json:"max_size"`
		MaxRetries       int      `json:"max_retries"`
		MaxDeadLetters   int      `json:"max_dead_letters"`
		OperationTimeout Duration `json:"operation_timeout"`
	} `json:"queue,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Local struct {
			Path string `json:"path"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		APIKey         string   `json:"api_key"`
		RequestTimeout Duration `json:"request_timeout"`
		ProbeInterval  Duration `json:"probe_interval"`
	} `json:"adapter,omitempty"`

	Workers struct {
		ProcessInterval Duration `json:"process_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			LogLevel:      jsonCfg.App.LogLevel,
			LogDir:        jsonCfg.App.LogDir,
			OwnerID:       jsonCfg.App.OwnerID,
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
		},
		Queue: Queue{
			MaxSize:          jsonCfg.Queue.MaxSize,
			MaxRetries:       jsonCfg.Queue.MaxRetries,
			MaxDeadLetters:   jsonCfg.Queue.MaxDeadLetters,
			OperationTimeout: time.Duration(jsonCfg.Queue.OperationTimeout),
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Local: Local{Path: jsonCfg.Storage.Local.Path},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			APIKey:         jsonCfg.Adapter.APIKey,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			ProbeInterval:  time.Duration(jsonCfg.Adapter.ProbeInterval),
		},
		Workers: Workers{
			ProcessInterval: time.Duration(jsonCfg.Workers.ProcessInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that unmarshals from strings
// like "1h" or "30s" as well as from raw nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
