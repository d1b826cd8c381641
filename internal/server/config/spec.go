package config

import "time"

// ServerConfig is the root configuration for respd-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Protocol ProtocolSection `koanf:"protocol"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// MaxConnections caps open client connections. 0 means unlimited.
	MaxConnections int `koanf:"max_connections"`

	// RateLimit is commands per second per client IP. 0 disables it.
	RateLimit int `koanf:"rate_limit"`

	// ErrorPolicy is "drop" (no reply to malformed frames) or "reply"
	// (answer them with -ERROR_UNKNOWN_COMMAND).
	ErrorPolicy string `koanf:"error_policy"`

	TLS TLSConfig `koanf:"tls"`
}

// TLSConfig configures the optional TLS RESP listener.
type TLSConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`

	// ClientCAFile, when set, requires client certificates signed by it.
	ClientCAFile string `koanf:"client_ca_file"`
}

// HTTPConfig configures the metrics and health endpoint.
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// ProtocolSection bounds what a single RESP frame may cost.
type ProtocolSection struct {
	MaxDepth    int `koanf:"max_depth"`
	MaxArrayLen int `koanf:"max_array_len"`
	MaxBulkLen  int `koanf:"max_bulk_len"`
	MaxLineLen  int `koanf:"max_line_len"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
