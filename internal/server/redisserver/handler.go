package redisserver

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/yndnr/respd-go/internal/protocol/command"
	"github.com/yndnr/respd-go/internal/protocol/resp"
	"github.com/yndnr/respd-go/internal/telemetry/logger"
	"github.com/yndnr/respd-go/internal/telemetry/metric"
)

// LimitExceededReply is written before closing a connection whose frame
// broke a decoder limit.
const LimitExceededReply = "ERR protocol limit exceeded"

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	ctx = logger.WithConnID(ctx, c.ID())
	ctx = logger.WithRemoteAddr(ctx, c.RemoteAddr().String())
	log := logger.Enrich(ctx, s.logger)

	s.metrics.ConnectionsActive.Inc()
	log.Debug("connection opened")
	defer func() {
		_ = c.Close()
		s.metrics.ConnectionsActive.Dec()
		log.Debug("connection closed", "duration", time.Since(c.since).String())
	}()

	for {
		// Pending replies are flushed by the connection's reader before it
		// blocks on the socket.
		if c.dec.Buffered() == 0 {
			// First byte: allow idle timeout between frames.
			if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
			if _, err := c.br.Peek(1); err != nil {
				s.logReadError(log, c, err)
				return
			}
		}

		// After first byte: tighten to per-frame read timeout.
		if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return
		}

		v, err := c.dec.Decode()
		if err != nil {
			if !s.handleDecodeError(log, c, err) {
				return
			}
			continue
		}

		if s.limiter != nil && !s.limiter.wait(ctx, c.clientIP(), s.cfg.ReadTimeout) {
			s.metrics.RateLimited.Inc()
			log.Debug("rate limit exceeded", "ip", c.clientIP())
			s.replyFailure(c)
			continue
		}

		s.execute(ctx, log, c, v)
	}
}

// execute interprets one decoded frame and buffers its reply.
func (s *Server) execute(ctx context.Context, log logger.Logger, c *Conn, v resp.Value) {
	start := time.Now()

	cmd, err := s.interp.Interpret(ctx, v)
	if err != nil {
		s.metrics.ObserveError(metric.StageInterpret, errorKind(err))
		log.Debug("command rejected", "error", err)
		s.replyFailure(c)
		return
	}

	c.out = cmd.AppendReply(c.out[:0])
	_, _ = c.bw.Write(c.out)
	s.metrics.ObserveCommand(cmd.Name(), time.Since(start))
}

// handleDecodeError reports whether the connection should keep reading.
func (s *Server) handleDecodeError(log logger.Logger, c *Conn, err error) bool {
	switch {
	case errors.Is(err, resp.ErrLimitExceeded):
		s.metrics.ObserveError(metric.StageDecode, errorKind(err))
		log.Warn("protocol limit exceeded", "error", err)
		_, _ = c.bw.Write(resp.AppendError(nil, LimitExceededReply))
		_ = c.flush()
		return false

	case errors.Is(err, resp.ErrProtocol):
		s.metrics.ObserveError(metric.StageDecode, errorKind(err))
		var de *resp.DecodeError
		if errors.As(err, &de) {
			log.Debug("malformed frame", "error", de.Kind.Error(), "line", de.Line)
		}
		s.replyFailure(c)
		return true

	default:
		s.logReadError(log, c, err)
		return false
	}
}

// replyFailure applies the error policy to a frame that produced no command.
func (s *Server) replyFailure(c *Conn) {
	if s.cfg.ErrorPolicy == PolicyReply {
		_, _ = c.bw.Write(command.UnknownReply())
	}
}

func (s *Server) logReadError(log logger.Logger, c *Conn, err error) {
	if c.Closed() || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		log.Debug("connection closed mid-frame")
		return
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Debug("connection timed out")
		return
	}
	log.Debug("connection read error", "error", err)
}

// errorKind maps a decode or interpretation error to its metric label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, resp.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, resp.ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, resp.ErrBadInteger):
		return "bad_integer"
	case errors.Is(err, resp.ErrBadLength):
		return "bad_length"
	case errors.Is(err, command.ErrNotACommand):
		return "not_a_command"
	case errors.Is(err, command.ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, command.ErrArity):
		return "arity"
	case errors.Is(err, command.ErrType):
		return "type"
	default:
		return "other"
	}
}
