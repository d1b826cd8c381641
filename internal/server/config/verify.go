package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/respd-go/internal/telemetry/logger"
)

// Verify validates the configuration. All problems are reported together.
func Verify(cfg *ServerConfig) error {
	var errs []error
	errs = append(errs, verifyRedis(&cfg.Server.Redis)...)
	errs = append(errs, verifyHTTP(&cfg.Server)...)
	errs = append(errs, verifyProtocol(&cfg.Protocol)...)
	errs = append(errs, verifyLog(&cfg.Log)...)
	return errors.Join(errs...)
}

func verifyRedis(cfg *RedisConfig) []error {
	var errs []error
	if err := verifyAddr("server.redis.addr", cfg.Addr); err != nil {
		errs = append(errs, err)
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, errors.New("server.redis.read_timeout must not be negative"))
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, errors.New("server.redis.write_timeout must not be negative"))
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, errors.New("server.redis.idle_timeout must not be negative"))
	}
	if cfg.MaxConnections < 0 {
		errs = append(errs, errors.New("server.redis.max_connections must not be negative"))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("server.redis.rate_limit must not be negative"))
	}
	switch strings.ToLower(cfg.ErrorPolicy) {
	case "", "drop", "reply":
	default:
		errs = append(errs, fmt.Errorf("server.redis.error_policy %q must be drop or reply", cfg.ErrorPolicy))
	}
	return append(errs, verifyTLS(cfg)...)
}

func verifyTLS(cfg *RedisConfig) []error {
	t := cfg.TLS
	if !t.Enabled {
		return nil
	}
	var errs []error
	if err := verifyAddr("server.redis.tls.addr", t.Addr); err != nil {
		errs = append(errs, err)
	} else if t.Addr == cfg.Addr && !strings.HasSuffix(t.Addr, ":0") {
		errs = append(errs, fmt.Errorf("server.redis.tls.addr and server.redis.addr are both %s", t.Addr))
	}
	if t.CertFile == "" {
		errs = append(errs, errors.New("server.redis.tls.cert_file is required when tls is enabled"))
	}
	if t.KeyFile == "" {
		errs = append(errs, errors.New("server.redis.tls.key_file is required when tls is enabled"))
	}
	return errs
}

func verifyHTTP(cfg *ServerSection) []error {
	if !cfg.HTTP.Enabled {
		return nil
	}
	if err := verifyAddr("server.http.addr", cfg.HTTP.Addr); err != nil {
		return []error{err}
	}
	if cfg.HTTP.Addr == cfg.Redis.Addr && !strings.HasSuffix(cfg.HTTP.Addr, ":0") {
		return []error{fmt.Errorf("server.http.addr and server.redis.addr are both %s", cfg.HTTP.Addr)}
	}
	return nil
}

func verifyProtocol(cfg *ProtocolSection) []error {
	var errs []error
	for _, f := range []struct {
		key string
		val int
	}{
		{"protocol.max_depth", cfg.MaxDepth},
		{"protocol.max_array_len", cfg.MaxArrayLen},
		{"protocol.max_bulk_len", cfg.MaxBulkLen},
		{"protocol.max_line_len", cfg.MaxLineLen},
	} {
		if f.val < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", f.key))
		}
	}
	return errs
}

func verifyLog(cfg *LogSection) []error {
	var errs []error
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(cfg.Format) {
	case "", "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", cfg.Format))
	}
	return errs
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", key)
	}
	if _, port, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s %q: %w", key, addr, err)
	} else if port == "" {
		return fmt.Errorf("%s %q: missing port", key, addr)
	}
	return nil
}
