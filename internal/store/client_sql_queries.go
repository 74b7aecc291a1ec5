// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	getKeyValue = `
		SELECT value
		FROM kv_store
		WHERE key = ?;`

	setKeyValue = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at;`

	removeKeyValue = `
		DELETE FROM kv_store
		WHERE key = ?;`
)
