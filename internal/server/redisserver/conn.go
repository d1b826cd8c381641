package redisserver

import (
	"bufio"
	"net"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/respd-go/internal/protocol/resp"
)

// Conn is a single client connection.
type Conn struct {
	id      string
	netConn net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer
	dec     *resp.Decoder
	since   time.Time

	// out is reused for encoding replies.
	out []byte

	writeTimeout time.Duration

	closed atomic.Bool
}

func newConn(c net.Conn, limits resp.Limits, writeTimeout time.Duration) *Conn {
	conn := &Conn{
		id:           ulid.Make().String(),
		netConn:      c,
		bw:           bufio.NewWriter(c),
		since:        time.Now(),
		writeTimeout: writeTimeout,
	}
	conn.br = bufio.NewReader(flushReader{conn})
	conn.dec = resp.NewDecoder(conn.br, limits)
	return conn
}

// flushReader writes out pending replies before every socket read, so a
// reply is on the wire before the server blocks waiting for more input.
type flushReader struct {
	c *Conn
}

func (r flushReader) Read(p []byte) (int, error) {
	if err := r.c.flush(); err != nil {
		return 0, err
	}
	return r.c.netConn.Read(p)
}

// flush writes buffered replies under the write timeout.
func (c *Conn) flush() error {
	if c.bw.Buffered() == 0 {
		return nil
	}
	if c.writeTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.bw.Flush()
}

// ID returns the connection's ULID.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// clientIP returns the host part of the peer address.
func (c *Conn) clientIP() string {
	addr := c.netConn.RemoteAddr()
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
