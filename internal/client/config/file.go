package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akash-siv/pen-and-paper/internal/flagx"
	"github.com/akash-siv/pen-and-paper/internal/timex"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig is the DTO shared by the JSON, TOML and YAML decoders. Pointer
// fields distinguish "absent" from zero so a partial file only overrides
// what it names.
type FileConfig struct {
	APIBaseURL          *string         `json:"api_base_url" toml:"api_base_url" yaml:"api_base_url"`
	DBPath              *string         `json:"db_path" toml:"db_path" yaml:"db_path"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" toml:"online_check_interval" yaml:"online_check_interval"`
	RequestTimeout      *timex.Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
	SearchDebounce      *timex.Duration `json:"search_debounce" toml:"search_debounce" yaml:"search_debounce"`
	MaxPayloadSize      *string         `json:"max_payload_size" toml:"max_payload_size" yaml:"max_payload_size"`
	DownloadConcurrency *int            `json:"download_concurrency" toml:"download_concurrency" yaml:"download_concurrency"`
	InboxDir            *string         `json:"inbox_dir" toml:"inbox_dir" yaml:"inbox_dir"`
	ExportDir           *string         `json:"export_dir" toml:"export_dir" yaml:"export_dir"`
	Log                 *FileLogConfig  `json:"log" toml:"log" yaml:"log"`
}

type FileLogConfig struct {
	Backend string `json:"backend" toml:"backend" yaml:"backend"`
	Level   string `json:"level" toml:"level" yaml:"level"`
	Format  string `json:"format" toml:"format" yaml:"format"`
}

// parseFile overlays cfg with the file named by -c / -config, if any.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}
	return loadFile(cfg, path)
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	return fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) error {
	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.DBPath != nil {
		cfg.DBPath = *fc.DBPath
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.SearchDebounce != nil {
		cfg.SearchDebounce = fc.SearchDebounce.Duration
	}
	if fc.MaxPayloadSize != nil {
		n, err := parseSize(*fc.MaxPayloadSize)
		if err != nil {
			return err
		}
		cfg.MaxPayloadSize = n
	}
	if fc.DownloadConcurrency != nil {
		cfg.DownloadConcurrency = *fc.DownloadConcurrency
	}
	if fc.InboxDir != nil {
		cfg.InboxDir = *fc.InboxDir
	}
	if fc.ExportDir != nil {
		cfg.ExportDir = *fc.ExportDir
	}
	if fc.Log != nil {
		if fc.Log.Backend != "" {
			cfg.LogBackend = fc.Log.Backend
		}
		if fc.Log.Level != "" {
			cfg.LogLevel = fc.Log.Level
		}
		if fc.Log.Format != "" {
			cfg.LogFormat = fc.Log.Format
		}
	}
	return nil
}
