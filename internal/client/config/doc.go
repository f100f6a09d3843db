// Package config loads runtime configuration for the CollabNotes CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables, optionally seeded from a dotenv file selected
//     via -e or -env (or ./.env when present).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the CollabNotes API
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Durations are strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api/v1",
//	  "session_db_path": "/home/ann/.config/collabnotes/session.db",
//	  "request_timeout": "15s",
//	  "rate_limit": 10,
//	  "rate_burst": 20,
//	  "log_level": "info",
//	  "otlp_endpoint": "localhost:4317",
//	  "otlp_insecure": true
//	}
package config
