package config

import "time"

// Config holds runtime settings for the mutestr CLI.
//
// Fields:
//   - RelayURLs: the relay set used for every fetch and publish.
//   - DatabasePath: path of the local SQLite database file.
//   - FetchTimeout: upper bound for one fan-out relay query.
//   - PublishTimeout: upper bound for one fire-and-forget publish.
//
// Units: timeouts are time.Duration (e.g., 5*time.Second).
type Config struct {
	RelayURLs      []string
	DatabasePath   string
	FetchTimeout   time.Duration
	PublishTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RelayURLs = []string{
		"wss://relay.damus.io",
		"wss://nos.lol",
		"wss://relay.nostr.band",
	}
	c.DatabasePath = "mutestr.db"
	c.FetchTimeout = 5 * time.Second
	c.PublishTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
