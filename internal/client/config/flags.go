package config

import (
	"flag"
	"os"
	"time"

	"github.com/leeya018/gratitudes/internal/flagx"
)

// parseFlags populates Config from the flags this package owns; other
// arguments in os.Args are ignored.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local session database path")
	fs.StringVar(&cfg.PlayerCommand, "p", cfg.PlayerCommand, "audio player command")
	fs.StringVar(&cfg.RecorderCommand, "r", cfg.RecorderCommand, "audio recorder command")
	fs.StringVar(&cfg.BackgroundCommand, "b", cfg.BackgroundCommand, "background audio command")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := flagx.Parse(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
