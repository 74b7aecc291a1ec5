// Package utils provides general-purpose helpers shared by the client and the
// reference server: context keys, HTTP response writing, the resty client
// wrapper, JWT handling and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

var (
	// DeviceIDCtxKey stores the authenticated device id on the server side.
	DeviceIDCtxKey = contextKey("deviceID")

	// IdempotencyKeyCtxKey stores the key the remote store deduplicates
	// replayed writes by. The offline queue sets it to the operation id.
	IdempotencyKeyCtxKey = contextKey("idempotencyKey")
)

// GetDeviceIDFromContext returns the device id stored under [DeviceIDCtxKey].
func GetDeviceIDFromContext(ctx context.Context) (string, bool) {
	deviceID, ok := ctx.Value(DeviceIDCtxKey).(string)
	return deviceID, ok && deviceID != ""
}

// WithIdempotencyKey returns a copy of ctx carrying key.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, IdempotencyKeyCtxKey, key)
}

// GetIdempotencyKeyFromContext returns the key set by [WithIdempotencyKey].
func GetIdempotencyKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(IdempotencyKeyCtxKey).(string)
	return key, ok && key != ""
}
