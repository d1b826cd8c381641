// Package resp implements the RESP2 wire codec used by respd.
//
// The package has two halves:
//
//   - decode.go: Decoder turns a buffered byte stream into a Value tree
//   - encode.go: append-style frame encoders used for replies and requests
//
// Supported frame types are simple strings, errors, integers, bulk strings
// and arrays. Null bulk strings, null arrays and RESP3 types are rejected.
//
// The codec knows nothing about commands; see package command.
package resp
