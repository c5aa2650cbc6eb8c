package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mutestr/mutestr/internal/flagx"
	"github.com/mutestr/mutestr/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify timeouts either as
// strings like "5s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	RelayURLs      []string       `json:"relay_urls"`
	DatabasePath   string         `json:"database_path"`
	FetchTimeout   timex.Duration `json:"fetch_timeout"`
	PublishTimeout timex.Duration `json:"publish_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Fields left empty in the JSON keep their earlier values, so a partial
// file overrides only what it names.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if len(jc.RelayURLs) > 0 {
		cfg.RelayURLs = jc.RelayURLs
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.FetchTimeout.Duration > 0 {
		cfg.FetchTimeout = time.Duration(jc.FetchTimeout.Duration)
	}
	if jc.PublishTimeout.Duration > 0 {
		cfg.PublishTimeout = time.Duration(jc.PublishTimeout.Duration)
	}
}
