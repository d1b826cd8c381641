package connection

import (
	"context"
	"crypto/tls"
	"errors"
	"time"
)

// ErrNotConnected is returned when no server connection is open.
var ErrNotConnected = errors.New("connection: not connected")

// Manager tracks the current server connection of an interactive session
// and reconnects after a failed exchange closed it.
type Manager struct {
	timeout time.Duration
	tls     *tls.Config
	addr    string
	current *Client
}

// NewManager creates a manager whose connections use timeout. A non-nil
// tlsCfg makes every connection TLS.
func NewManager(timeout time.Duration, tlsCfg *tls.Config) *Manager {
	return &Manager{timeout: timeout, tls: tlsCfg}
}

// Connect opens a connection to addr and makes it current, closing the
// previous one.
func (m *Manager) Connect(ctx context.Context, addr string) (*Client, error) {
	c, err := DialTLS(ctx, addr, m.timeout, m.tls)
	if err != nil {
		return nil, err
	}
	m.Disconnect()
	m.addr = addr
	m.current = c
	return c, nil
}

// Client returns the current connection, redialing the last address when
// the connection was closed by an error.
func (m *Manager) Client(ctx context.Context) (*Client, error) {
	if m.addr == "" {
		return nil, ErrNotConnected
	}
	if m.current != nil && !m.current.isClosed() {
		return m.current, nil
	}
	return m.Connect(ctx, m.addr)
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() {
	if m.current != nil {
		_ = m.current.Close()
		m.current = nil
	}
}

// Addr returns the address of the current or last connection.
func (m *Manager) Addr() string {
	return m.addr
}

// IsConnected returns true if a connection is open.
func (m *Manager) IsConnected() bool {
	return m.current != nil && !m.current.isClosed()
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
