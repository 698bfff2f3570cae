// Package config loads runtime configuration for the reader CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. The extension picks
//     the decoder: .json, .toml or .yaml/.yml.
//  3. Environment: variables prefixed PNP_, plus a .env file in the working
//     directory when present (values already set in the environment win).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-d string   path of the local SQLite cache
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// File schema (TOML shown; JSON and YAML use the same keys)
//
//	api_base_url = "http://127.0.0.1:8000"
//	db_path = "reader.db"
//	online_check_interval = "3s"
//	request_timeout = "30s"
//	search_debounce = "300ms"
//	max_payload_size = "100MB"
//	download_concurrency = 4
//	inbox_dir = "inbox"
//	export_dir = "exports"
//
//	[log]
//	backend = "zap"
//	level = "debug"
//	format = "json"
//
// Sizes are parsed with docker/go-units, so "100MB", "64MiB" and "1g" work.
package config
