// Package logger provides structured logging for respd.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: handler setup, global level, package-level helpers
//   - context.go: connection-scoped fields carried in context.Context
//   - payload.go: truncation of client payloads before they reach a log line
//
// Client-controlled bytes (ECHO arguments, malformed lines) are logged as
// bounded, quoted previews so a single request cannot flood the log.
package logger
