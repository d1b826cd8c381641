package connection

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/yndnr/respd-go/internal/protocol/command"
	"github.com/yndnr/respd-go/internal/protocol/resp"
)

// DefaultTimeout bounds dialing and each request/reply exchange.
const DefaultTimeout = 5 * time.Second

var (
	// ErrClosed is returned by calls on a closed client.
	ErrClosed = errors.New("connection: client closed")

	// ErrNoReply is returned when the server does not answer in time.
	ErrNoReply = errors.New("connection: no reply from server")

	// ErrUnexpectedReply is returned when a reply has the wrong shape.
	ErrUnexpectedReply = errors.New("connection: unexpected reply")
)

// ServerError is an error frame returned by the server.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server error: " + e.Message
}

// Client is a RESP client bound to one connection. It is safe for
// concurrent use; calls are serialized.
type Client struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	bw     *bufio.Writer
	dec    *resp.Decoder
	closed bool
}

// Dial connects to addr. A non-positive timeout selects DefaultTimeout.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	return DialTLS(ctx, addr, timeout, nil)
}

// DialTLS connects to addr and, when cfg is non-nil, completes a TLS
// handshake before returning.
func DialTLS(ctx context.Context, addr string, timeout time.Duration, cfg *tls.Config) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var conn net.Conn
	var err error
	nd := &net.Dialer{Timeout: timeout}
	if cfg != nil {
		td := &tls.Dialer{NetDialer: nd, Config: cfg}
		conn, err = td.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = nd.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		bw:      bufio.NewWriter(conn),
		dec:     resp.NewDecoder(conn, resp.DefaultLimits()),
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Ping sends PING and returns the status reply.
func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := command.Ping().Request()
	if err != nil {
		return "", err
	}
	v, err := c.roundTrip(ctx, req)
	if err != nil {
		return "", err
	}
	if v.Kind == resp.KindError {
		return "", &ServerError{Message: v.Str}
	}
	if v.Kind != resp.KindSimpleString {
		return "", fmt.Errorf("%w: PING got %s", ErrUnexpectedReply, v.Kind)
	}
	return v.Str, nil
}

// Echo sends ECHO text and returns the echoed bytes as a string.
func (c *Client) Echo(ctx context.Context, text string) (string, error) {
	req, err := command.Echo(text).Request()
	if err != nil {
		return "", err
	}
	v, err := c.roundTrip(ctx, req)
	if err != nil {
		return "", err
	}
	if v.Kind == resp.KindError {
		return "", &ServerError{Message: v.Str}
	}
	if v.Kind != resp.KindBulkString {
		return "", fmt.Errorf("%w: ECHO got %s", ErrUnexpectedReply, v.Kind)
	}
	return string(v.Bulk), nil
}

// Do sends an arbitrary command array and returns the raw reply. Error
// frames are returned as values, not as errors.
func (c *Client) Do(ctx context.Context, name string, args ...string) (resp.Value, error) {
	bargs := make([][]byte, len(args))
	for i, a := range args {
		bargs[i] = []byte(a)
	}
	return c.roundTrip(ctx, resp.Marshal(resp.Command(name, bargs...)))
}

func (c *Client) roundTrip(ctx context.Context, req []byte) (resp.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return resp.Value{}, ErrClosed
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return resp.Value{}, err
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := c.bw.Write(req); err != nil {
		return resp.Value{}, c.fail(ctx, err)
	}
	if err := c.bw.Flush(); err != nil {
		return resp.Value{}, c.fail(ctx, err)
	}

	v, err := c.dec.Decode()
	if err != nil {
		return resp.Value{}, c.fail(ctx, err)
	}
	return v, nil
}

// fail closes the connection, since its stream position is unknown, and
// translates the error. Called with mu held.
func (c *Client) fail(ctx context.Context, err error) error {
	c.closeLocked()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
		return context.DeadlineExceeded
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w within %s", ErrNoReply, c.timeout)
	}
	return err
}

// Close closes the connection. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
