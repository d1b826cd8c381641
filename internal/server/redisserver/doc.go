// Package redisserver serves the RESP protocol over TCP.
//
// Each accepted connection gets its own goroutine, a buffered reader feeding
// a resp.Decoder and a buffered writer. Frames are decoded, interpreted into
// commands and answered in arrival order. Pipelined frames that are already
// buffered are answered back to back and flushed once the buffer drains.
//
// Frames that fail to decode or interpret are handled according to the
// configured ErrorPolicy. I/O errors, timeouts and decoder limit violations
// always end the connection.
package redisserver
