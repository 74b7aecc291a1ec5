// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{name: "empty address", addr: NetAddress{}, expected: ""},
		{name: "localhost with port", addr: NetAddress{Host: "localhost", Port: 8080}, expected: "localhost:8080"},
		{name: "only port no host", addr: NetAddress{Port: 8080}, expected: ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedAddr NetAddress
	}{
		{name: "valid localhost", input: "localhost:8080", expectedAddr: NetAddress{Host: "localhost", Port: 8080}},
		{name: "valid ip", input: "127.0.0.1:9090", expectedAddr: NetAddress{Host: "127.0.0.1", Port: 9090}},
		{name: "all interfaces", input: ":8080", expectedAddr: NetAddress{Port: 8080}},
		{name: "missing port", input: "localhost", expectError: true},
		{name: "port not a number", input: "localhost:http", expectError: true},
		{name: "port out of range", input: "localhost:70000", expectError: true},
		{name: "zero port", input: "localhost:0", expectError: true},
		{name: "bad host", input: "care.example:80", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedAddr, addr)
		})
	}
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-a", "localhost:8080",
		"-d", "postgres://localhost/care",
		"-l", "/tmp/queue.db",
		"-r", "http://localhost:8080",
		"-k", "device-token",
		"-config", "/etc/care.json",
		"-owner", "caregiver-1",
		"-log-level", "warn",
		"-token-sign-key", "sign",
		"-token-issuer", "care-server",
		"-token-duration", "2h",
		"-request-timeout", "5s",
		"-process-interval", "1m",
		"-max-queue-size", "10",
		"-max-retries", "7",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "postgres://localhost/care", cfg.Storage.DB.DSN)
	assert.Equal(t, "/tmp/queue.db", cfg.Storage.Local.Path)
	assert.Equal(t, "http://localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "device-token", cfg.Adapter.APIKey)
	assert.Equal(t, "/etc/care.json", cfg.JSONFilePath)
	assert.Equal(t, "caregiver-1", cfg.App.OwnerID)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "sign", cfg.App.TokenSignKey)
	assert.Equal(t, "care-server", cfg.App.TokenIssuer)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.Workers.ProcessInterval)
	assert.Equal(t, 10, cfg.Queue.MaxSize)
	assert.Equal(t, 7, cfg.Queue.MaxRetries)
}

func TestParseFlags_NoFlags(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Server.HTTPAddress)
	assert.Equal(t, 0, cfg.Queue.MaxSize)
}

func TestParseFlags_InvalidAddress(t *testing.T) {
	_, err := ParseFlags([]string{"-a", "nope"})
	assert.Error(t, err)
}
