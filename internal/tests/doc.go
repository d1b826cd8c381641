// Package tests holds end-to-end tests that run the RESP server, the HTTP
// endpoints and the CLI client together over loopback sockets.
//
// They are skipped with -short.
package tests
