// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the care client runtime.
//
// It runs the status console next to the queue triggers and tears both down
// together when the console exits or the process is signalled.
package client
