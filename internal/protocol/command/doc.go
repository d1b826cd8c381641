// Package command interprets decoded RESP values as respd commands.
//
// The command set is closed: PING, ECHO and the UNKNOWN fallback produced
// when a peer sends an error frame. Each Command encodes its own reply with
// the frame encoders of package resp.
package command
