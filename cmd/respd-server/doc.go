// Package main provides the entry point for respd-server.
//
// respd-server accepts RESP2 connections and answers PING and ECHO. Next to
// the RESP listener it serves /metrics, /healthz and /version over HTTP.
//
// Usage:
//
//	respd-server --config /etc/respd/respd.yaml
//	respd-server --addr 0.0.0.0:6379 --log-level debug
//	RESPD_SERVER_REDIS_ERROR_POLICY=reply respd-server
//
// Configuration sources, lowest priority first: built-in defaults, the YAML
// file, a .env file, RESPD_* environment variables, command-line flags.
// When a config file is given it is watched and log.level changes are
// applied without a restart.
package main
