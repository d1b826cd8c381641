package logger

import "context"

type contextKey string

const (
	loggerKey     contextKey = "respd.logger"
	connIDKey     contextKey = "respd.conn_id"
	remoteAddrKey contextKey = "respd.remote_addr"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithConnID adds a connection ID to the context.
func WithConnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, connIDKey, id)
}

// ConnIDFromContext extracts the connection ID from context.
func ConnIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(connIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRemoteAddr adds the peer address to the context.
func WithRemoteAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, remoteAddrKey, addr)
}

// RemoteAddrFromContext extracts the peer address from context.
func RemoteAddrFromContext(ctx context.Context) string {
	if addr, ok := ctx.Value(remoteAddrKey).(string); ok {
		return addr
	}
	return ""
}

// Enrich adds the connection fields found in ctx to l.
func Enrich(ctx context.Context, l Logger) Logger {
	if id := ConnIDFromContext(ctx); id != "" {
		l = l.With("conn_id", id)
	}
	if addr := RemoteAddrFromContext(ctx); addr != "" {
		l = l.With("remote", addr)
	}
	return l
}

// L is a shorthand for Enrich(ctx, FromContext(ctx)).
func L(ctx context.Context) Logger {
	return Enrich(ctx, FromContext(ctx))
}
