// Package main provides the entry point for respd-cli.
//
// Usage:
//
//	respd-cli ping
//	respd-cli -s 10.0.0.5:6379 echo "hello"
//	respd-cli -o json raw ECHO hi
//	respd-cli repl
//
// The server address defaults to 127.0.0.1:6379 and can be set with
// --server or RESPD_SERVER.
package main
