package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/mutestr/mutestr/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-r string   comma-separated relay URLs (default from Config)
//	-d string   path of the local database file
//	-t int      relay fetch timeout in seconds
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	relays := fs.String("r", strings.Join(cfg.RelayURLs, ","), "comma-separated relay URLs")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database file")
	fetchTimeout := fs.Int("t", int(cfg.FetchTimeout.Seconds()), "relay fetch timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RelayURLs = splitRelays(*relays)
	cfg.FetchTimeout = time.Duration(*fetchTimeout) * time.Second
}

func splitRelays(s string) []string {
	var out []string
	for _, url := range strings.Split(s, ",") {
		url = strings.TrimSpace(url)
		if url != "" {
			out = append(out, url)
		}
	}
	return out
}
