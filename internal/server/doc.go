// Package server runs the reference remote store: it serves the HTTP router
// until a stop signal arrives and then shuts down gracefully.
package server
