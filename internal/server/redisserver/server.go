package redisserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/respd-go/internal/protocol/command"
	"github.com/yndnr/respd-go/internal/protocol/resp"
	"github.com/yndnr/respd-go/internal/telemetry/logger"
	"github.com/yndnr/respd-go/internal/telemetry/metric"
	"github.com/yndnr/respd-go/pkg/cmap"
)

// ErrorPolicy decides what a client sees when its frame cannot be decoded
// or interpreted.
type ErrorPolicy string

const (
	// PolicyDrop sends no reply and keeps reading.
	PolicyDrop ErrorPolicy = "drop"
	// PolicyReply answers with -ERROR_UNKNOWN_COMMAND and keeps reading.
	PolicyReply ErrorPolicy = "reply"
)

// ParseErrorPolicy converts a configuration string to an ErrorPolicy.
// An empty string selects PolicyDrop.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch p := ErrorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyDrop:
		return PolicyDrop, nil
	case PolicyReply:
		return PolicyReply, nil
	default:
		return "", fmt.Errorf("redisserver: unknown error policy %q (want drop or reply)", s)
	}
}

// ErrServerRunning is returned by Start on a server that is already running.
var ErrServerRunning = errors.New("redisserver: already running")

// Config holds the RESP server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string
	// ReadTimeout bounds the time to receive one frame once its first byte
	// has arrived (default: 30s).
	ReadTimeout time.Duration
	// WriteTimeout bounds each flush of replies (default: 30s).
	WriteTimeout time.Duration
	// IdleTimeout bounds the wait for the next frame (default: 5m).
	IdleTimeout time.Duration
	// MaxConnections caps concurrently open connections. 0 means unlimited.
	MaxConnections int
	// RateLimit is the maximum number of commands per second per client IP.
	// 0 disables rate limiting.
	RateLimit int
	// ErrorPolicy selects the reaction to malformed frames (default: drop).
	ErrorPolicy ErrorPolicy
	// Limits bounds the decoder. Zero fields take the resp defaults.
	Limits resp.Limits

	// TLSConfig enables a second, TLS-wrapped listener on TLSAddress.
	// Connections on both listeners are served identically.
	TLSConfig  *tls.Config
	TLSAddress string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
		ErrorPolicy:  PolicyDrop,
		Limits:       resp.DefaultLimits(),
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	d := DefaultConfig()
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.IdleTimeout <= 0 {
		out.IdleTimeout = d.IdleTimeout
	}
	if out.ErrorPolicy == "" {
		out.ErrorPolicy = PolicyDrop
	}
	return &out
}

// Server is the RESP protocol server.
type Server struct {
	cfg     *Config
	logger  logger.Logger
	metrics *metric.Registry
	interp  *command.Interpreter
	limiter *ipLimiters

	mu      sync.Mutex
	ln      net.Listener
	tlsLn   net.Listener
	stop    chan struct{}
	running atomic.Bool
	wg      sync.WaitGroup

	conns *cmap.Map[string, *Conn]
}

// New creates a RESP server. A nil cfg uses DefaultConfig, a nil registry
// gets a private one and a nil log uses the default logger.
func New(cfg *Config, metrics *metric.Registry, log logger.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if metrics == nil {
		metrics = metric.NewRegistry()
	}
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "redisserver")

	s := &Server{
		cfg:     cfg.withDefaults(),
		logger:  log,
		metrics: metrics,
		interp:  command.NewInterpreter(log),
		conns:   cmap.New[string, *Conn](),
	}
	if s.cfg.RateLimit > 0 {
		s.limiter = newIPLimiters(s.cfg.RateLimit)
	}
	return s
}

// Start binds the listen address and serves connections in the background
// until Shutdown is called or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return ErrServerRunning
	}

	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("redisserver: listen %s: %w", s.cfg.Address, err)
	}
	var tlsLn net.Listener
	if s.cfg.TLSConfig != nil {
		tlsLn, err = tls.Listen("tcp", s.cfg.TLSAddress, s.cfg.TLSConfig)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("redisserver: listen tls %s: %w", s.cfg.TLSAddress, err)
		}
	}
	s.ln = ln
	s.tlsLn = tlsLn
	s.stop = make(chan struct{})
	s.running.Store(true)

	s.logger.Info("redis server listening",
		"address", ln.Addr().String(),
		"error_policy", string(s.cfg.ErrorPolicy),
		"rate_limit", s.cfg.RateLimit,
		"max_connections", s.cfg.MaxConnections,
	)
	s.serve(ctx, ln)

	if tlsLn != nil {
		s.logger.Info("redis tls server listening", "address", tlsLn.Addr().String())
		s.serve(ctx, tlsLn)
	}

	if s.limiter != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.sweepLimiters(s.stop)
		}()
	}

	stop := s.stop
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Shutdown(context.Background())
		case <-stop:
		}
	}()

	return nil
}

func (s *Server) serve(ctx context.Context, ln net.Listener) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("redis server accept error", "address", ln.Addr().String(), "error", err)
		}
	}()
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// TLSAddr returns the bound TLS listen address, or nil when TLS is
// disabled or before Start.
func (s *Server) TLSAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tlsLn == nil {
		return nil
	}
	return s.tlsLn.Addr()
}

// ConnectionCount returns the number of open client connections.
func (s *Server) ConnectionCount() int {
	return s.conns.Count()
}

// Shutdown closes the listener and every open connection, then waits for
// their goroutines until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running.CompareAndSwap(true, false) {
		s.mu.Unlock()
		return nil
	}
	close(s.stop)
	var firstErr error
	for _, ln := range []net.Listener{s.ln, s.tlsLn} {
		if ln == nil {
			continue
		}
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	s.mu.Unlock()

	s.conns.Range(func(_ string, c *Conn) bool {
		_ = c.Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("redis server stopped")
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return err
		}

		s.metrics.ConnectionsTotal.Inc()

		if limit := s.cfg.MaxConnections; limit > 0 && s.conns.Count() >= limit {
			s.metrics.ConnectionsRejected.Inc()
			s.logger.Warn("connection rejected", "remote", nc.RemoteAddr().String(), "max_connections", limit)
			_ = nc.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			_, _ = nc.Write(resp.AppendError(nil, "ERR max number of clients reached"))
			_ = nc.Close()
			continue
		}

		c := newConn(nc, s.cfg.Limits, s.cfg.WriteTimeout)
		s.conns.Set(c.ID(), c)
		if !s.running.Load() {
			// Shutdown may have swept the registry before c was added.
			_ = c.Close()
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.conns.Delete(c.ID())
			s.serveConn(ctx, c)
		}()
	}
}
