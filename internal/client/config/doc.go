// Package config loads runtime configuration for the activityhub client.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with ACTIVITYHUB_.
//  4. Command-line flags, which override everything else.
//
// # Supported flags
//
//	-a string     base URL of the activity API
//	-d string     path of the local credential database ("" keeps credentials in memory)
//	-i int        connectivity watch interval (seconds)
//	-t duration   per-request timeout
//	-l string     log level (debug, info, warn, error)
//	-f string     log format (text, json)
//
// # JSON schema
//
// Durations are strings like "3s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://api.example.com",
//	  "database_path": "activityhub.db",
//	  "watch_interval": "5s",
//	  "request_timeout": "15s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// # Environment
//
//	ACTIVITYHUB_BASE_URL, ACTIVITYHUB_DATABASE_PATH, ACTIVITYHUB_WATCH_INTERVAL,
//	ACTIVITYHUB_REQUEST_TIMEOUT, ACTIVITYHUB_LOG_LEVEL, ACTIVITYHUB_LOG_FORMAT
package config
