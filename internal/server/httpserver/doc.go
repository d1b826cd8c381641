// Package httpserver serves respd's operational HTTP endpoints next to the
// RESP listener:
//
//   - GET /metrics: Prometheus exposition of the metric registry
//   - GET /healthz: liveness, always "ok" while the process serves
//   - GET /version: build information as JSON
//
// Requests pass through Recover, RequestID and AccessLog middleware.
package httpserver
