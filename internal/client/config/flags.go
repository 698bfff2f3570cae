package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/akash-siv/pen-and-paper/internal/flagx"
)

// parseFlags populates selected fields from command-line flags.
//
//	-a string   backend API base URL
//	-d string   local cache database path
//	-i int      online check interval (seconds)
//	-l string   log level
//
// Only these flags are considered; everything else in os.Args is filtered
// out with flagx.FilterArgs first.
func parseFlags(cfg *Config) error {
	return parseArgs(cfg, os.Args[1:])
}

func parseArgs(cfg *Config, argv []string) error {
	args := flagx.FilterArgs(argv, []string{"-a", "-d", "-i", "-l"})

	fs := flag.NewFlagSet("reader", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local cache database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		}
	})
	return nil
}
