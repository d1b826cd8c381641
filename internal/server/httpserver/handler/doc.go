// Package handler implements the operational HTTP endpoints of respd:
// Prometheus metrics, liveness and build information.
package handler
