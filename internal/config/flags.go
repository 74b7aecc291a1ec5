// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line into a [StructuredConfig].
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN (reference remote store)
//	-l local SQLite file (client)
//	-r remote store base URL (client)
//	-k remote store API key (client)
//	-c/-config json file path with configs
//	-owner owner id attached to queued operations
//	-log-level zerolog level name
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "720h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-process-interval queue timer trigger period (e.g., "30s")
//	-max-queue-size offline queue bound
//	-max-retries failed attempts before an operation is dead-lettered
func ParseFlags(args []string) (*StructuredConfig, error) {
	return parseFlags(flag.NewFlagSet("care", flag.ContinueOnError), args)
}

func parseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var databaseDSN, localPath string
	var remoteAddress, apiKey string
	var jsonConfigPath string
	var ownerID, logLevel string
	var tokenSignKey, tokenIssuer string
	var tokenDuration, requestTimeout, processInterval time.Duration
	var maxQueueSize, maxRetries int

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&localPath, "l", "", "Local SQLite file")
	fs.StringVar(&remoteAddress, "r", "", "Remote store base URL")
	fs.StringVar(&apiKey, "k", "", "Remote store API key")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&ownerID, "owner", "", "Owner id of queued operations")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 720h)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&processInterval, "process-interval", 0, "Queue timer trigger period (e.g., 30s)")
	fs.IntVar(&maxQueueSize, "max-queue-size", 0, "Offline queue bound")
	fs.IntVar(&maxRetries, "max-retries", 0, "Failed attempts before dead-lettering")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogLevel:      logLevel,
			OwnerID:       ownerID,
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Queue: Queue{
			MaxSize:    maxQueueSize,
			MaxRetries: maxRetries,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Local: Local{Path: localPath},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    remoteAddress,
			APIKey:         apiKey,
			RequestTimeout: requestTimeout,
		},
		Workers:      Workers{ProcessInterval: processInterval},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress, or an empty
// string when neither part is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range and checks IP correctness unless host is
// "localhost" or empty (listen on all interfaces).
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
