// Package config loads runtime configuration for the mutestr CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-r string   comma-separated relay URLs
//	-d string   path of the local database file
//	-t int      relay fetch timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be either
// strings like "5s" or integer nanoseconds:
//
//	{
//	  "relay_urls": ["wss://relay.damus.io", "wss://nos.lol"],
//	  "database_path": "mutestr.db",
//	  "fetch_timeout": "5s",
//	  "publish_timeout": "10s"
//	}
//
// Primary API
//
//   - type Config                     — relay set, database path and timeouts
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
