// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks writes received by the reference remote store
// before they reach the database: table names, record identifiers and JSON
// payload shape.
//
// Validators accept optional field names to restrict a check to part of a
// value, e.g. a delete only carries a table and a record id.
package validators

import "context"

// Validator validates the provided input, optionally restricted to the named
// fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
