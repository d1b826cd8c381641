// Package tlsroots loads the certificates and trust roots behind the
// optional TLS RESP listener and the CLI's TLS dialing.
//
//   - roots.go: CA pools, server and client tls.Config construction
//   - selfsigned.go: self-signed certificates for local use and tests
package tlsroots
