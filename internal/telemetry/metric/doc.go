// Package metric holds the Prometheus series exported by respd.
//
//   - metric.go: the Registry of connection, command, error and latency series
//   - collector.go: a build information collector
//
// Series are registered on a private prometheus.Registry rather than the
// global default, so several servers can run in one process (tests do).
// The registry is exposed at /metrics by the HTTP server.
package metric
