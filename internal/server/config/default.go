package config

import (
	"time"

	"github.com/yndnr/respd-go/internal/protocol/resp"
)

// Default configuration values.
const (
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultErrorPolicy  = "drop"
	DefaultTLSAddr      = "127.0.0.1:6380"

	DefaultHTTPAddr = "127.0.0.1:9121"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:         DefaultRedisAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				IdleTimeout:  DefaultIdleTimeout,
				ErrorPolicy:  DefaultErrorPolicy,
				TLS: TLSConfig{
					Addr: DefaultTLSAddr,
				},
			},
			HTTP: HTTPConfig{
				Enabled: true,
				Addr:    DefaultHTTPAddr,
			},
		},
		Protocol: ProtocolSection{
			MaxDepth:    resp.DefaultMaxDepth,
			MaxArrayLen: resp.DefaultMaxArrayLen,
			MaxBulkLen:  resp.DefaultMaxBulkLen,
			MaxLineLen:  resp.DefaultMaxLineLen,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Limits converts the protocol section to decoder limits.
func (p ProtocolSection) Limits() resp.Limits {
	return resp.Limits{
		MaxDepth:    p.MaxDepth,
		MaxArrayLen: p.MaxArrayLen,
		MaxBulkLen:  p.MaxBulkLen,
		MaxLineLen:  p.MaxLineLen,
	}
}
