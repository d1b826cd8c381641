// Package confloader loads respd configuration.
//
// It is built on koanf. Sources, from lowest to highest priority:
//
//  1. Defaults already present in the target struct
//  2. YAML configuration file
//  3. Environment variables, optionally seeded from a .env file
//  4. Explicit overrides (command-line flags) passed as a flat map
//
// Environment variables use the RESPD_ prefix and the upper-cased key path
// with dots replaced by underscores, for example RESPD_SERVER_REDIS_ADDR or
// RESPD_SERVER_REDIS_READ_TIMEOUT. Keys that themselves contain underscores
// are resolved against the koanf tags of the target struct.
//
// Watcher wraps fsnotify to report changes to the configuration file.
package confloader
