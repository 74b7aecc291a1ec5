// Package http implements the reference remote store over HTTP.
//
// It exposes a PostgREST-like surface (POST, PATCH and DELETE under
// /rest/v1/{table}) plus health and version endpoints. Device
// authentication, request tracing, access logging and compression are
// handled here before requests reach the service layer.
package http
