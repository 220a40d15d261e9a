// Package config loads runtime configuration for the VTV client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and VTV_* environment variables.
//  3. Optional JSON or YAML file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base url
//	-s string   session store path (sqlite)
//	-t int      request timeout (seconds)
//	-l string   log level
//
// Environment
//
//	VTV_API_URL, VTV_API_VERSION, VTV_REQUEST_TIMEOUT ("10s"),
//	VTV_STORE_DRIVER (sqlite|redis|memory), VTV_STORE_PATH,
//	VTV_REDIS_ADDR, VTV_REDIS_PASSWORD, VTV_REDIS_DB, VTV_REDIS_PREFIX,
//	VTV_LOG_LEVEL, VTV_LOG_FORMAT (text|json|zerolog), VTV_WATCH_SESSION
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://vtv.example.com/api",
//	  "api_version": "v1",
//	  "request_timeout": "10s",
//	  "store": {"driver": "sqlite", "path": "data/session.db"},
//	  "log": {"level": "debug", "format": "json"}
//	}
//
// The same keys are accepted in YAML when the file ends in .yaml or .yml.
package config
