package config

// Summary returns the effective configuration as alternating key/value
// pairs, ready to pass to a logger.
func Summary(cfg *ServerConfig) []any {
	r := cfg.Server.Redis
	return []any{
		"server.redis.addr", r.Addr,
		"server.redis.read_timeout", r.ReadTimeout.String(),
		"server.redis.write_timeout", r.WriteTimeout.String(),
		"server.redis.idle_timeout", r.IdleTimeout.String(),
		"server.redis.max_connections", r.MaxConnections,
		"server.redis.rate_limit", r.RateLimit,
		"server.redis.error_policy", r.ErrorPolicy,
		"server.redis.tls.enabled", r.TLS.Enabled,
		"server.redis.tls.addr", r.TLS.Addr,
		"server.redis.tls.client_auth", r.TLS.ClientCAFile != "",
		"server.http.enabled", cfg.Server.HTTP.Enabled,
		"server.http.addr", cfg.Server.HTTP.Addr,
		"protocol.max_depth", cfg.Protocol.MaxDepth,
		"protocol.max_array_len", cfg.Protocol.MaxArrayLen,
		"protocol.max_bulk_len", cfg.Protocol.MaxBulkLen,
		"protocol.max_line_len", cfg.Protocol.MaxLineLen,
		"log.level", cfg.Log.Level,
		"log.format", cfg.Log.Format,
	}
}
