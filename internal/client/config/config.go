package config

import (
	"fmt"
	"time"

	units "github.com/docker/go-units"
)

// Config holds runtime settings for the reader.
type Config struct {
	APIBaseURL          string
	DBPath              string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	SearchDebounce      time.Duration
	// MaxPayloadSize caps a single downloaded or imported document, in bytes.
	MaxPayloadSize      int64
	DownloadConcurrency int
	InboxDir            string
	ExportDir           string

	LogBackend string
	LogLevel   string
	LogFormat  string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.DBPath = "reader.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 30 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
	c.MaxPayloadSize = 100 * units.MiB
	c.DownloadConcurrency = 4
	c.InboxDir = ""
	c.ExportDir = "exports"
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate rejects values the services cannot work with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path is empty")
	}
	if c.MaxPayloadSize <= 0 {
		return fmt.Errorf("max payload size must be positive, got %d", c.MaxPayloadSize)
	}
	if c.DownloadConcurrency < 1 {
		return fmt.Errorf("download concurrency must be at least 1, got %d", c.DownloadConcurrency)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	return nil
}

// LoadConfig applies defaults, then the config file, then the environment
// (including .env), then command-line flags. Later sources win.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseSize(s string) (int64, error) {
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return n, nil
}
