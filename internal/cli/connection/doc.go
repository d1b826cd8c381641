// Package connection provides the RESP client used by respd-cli.
//
// A Client owns one TCP connection and performs strict request/reply
// exchanges: each call writes one command array and decodes exactly one
// reply frame, bounded by the client timeout and the caller's context.
//
// A server running the drop error policy sends nothing back for commands
// it does not accept; such calls end with ErrNoReply once the timeout
// expires and the connection is closed, since a late reply would be
// mistaken for the answer to the next request.
package connection
