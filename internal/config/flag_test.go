package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("flags override defaults", func(t *testing.T) {
		os.Args = []string{"testbin", "-r", "wss://one,wss://two", "-d", "flag.db", "-t", "7"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, []string{"wss://one", "wss://two"}, cfg.RelayURLs)
		assert.Equal(t, "flag.db", cfg.DatabasePath)
		assert.Equal(t, 7*time.Second, cfg.FetchTimeout)
	})

	t.Run("no flags keeps defaults", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Len(t, cfg.RelayURLs, 3)
		assert.Equal(t, "mutestr.db", cfg.DatabasePath)
		assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	})
}
