package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "PNP_"

// envFile is loaded before the environment is read. Missing is fine.
var envFile = ".env"

// parseEnv overlays cfg with PNP_* variables. godotenv.Load never overrides
// variables that are already set, so the real environment wins over .env.
func parseEnv(cfg *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("API_BASE_URL", &cfg.APIBaseURL)
	str("DB_PATH", &cfg.DBPath)
	str("INBOX_DIR", &cfg.InboxDir)
	str("EXPORT_DIR", &cfg.ExportDir)
	str("LOG_BACKEND", &cfg.LogBackend)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	if err := dur("ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval); err != nil {
		return err
	}
	if err := dur("REQUEST_TIMEOUT", &cfg.RequestTimeout); err != nil {
		return err
	}
	if err := dur("SEARCH_DEBOUNCE", &cfg.SearchDebounce); err != nil {
		return err
	}

	if v, ok := os.LookupEnv(envPrefix + "MAX_PAYLOAD_SIZE"); ok {
		n, err := parseSize(v)
		if err != nil {
			return err
		}
		cfg.MaxPayloadSize = n
	}
	if v, ok := os.LookupEnv(envPrefix + "DOWNLOAD_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sDOWNLOAD_CONCURRENCY: %w", envPrefix, err)
		}
		cfg.DownloadConcurrency = n
	}
	return nil
}
