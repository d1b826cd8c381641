// Package config defines the respd-server configuration.
//
//   - spec.go: ServerConfig struct definition with koanf tags
//   - default.go: default values
//   - verify.go: validation of addresses, timeouts, limits and log settings
//   - summary.go: flat key/value view for startup logging
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// a .env file and RESPD_ environment variables.
package config
