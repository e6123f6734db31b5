// Package config loads runtime configuration for the charitydesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed CHARITY_, falling back to a .env file
//     in the working directory.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// # Environment
//
//	CHARITY_API_URL, CHARITY_IDENTITY_URL, CHARITY_STORAGE_PATH,
//	CHARITY_NAMESPACE, CHARITY_REQUEST_TIMEOUT, CHARITY_RETRY_ATTEMPTS,
//	CHARITY_LOG_FILE, CHARITY_LOG_LEVEL
//
// # JSON schema
//
// Durations may be strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8080/api/v1",
//	  "identity_base_url": "http://localhost:8081",
//	  "storage_path": "data/session.db",
//	  "namespace": "charity_donor",
//	  "request_timeout": "10s",
//	  "retry_attempts": 5,
//	  "log_file": "data/client.log",
//	  "log_level": "debug"
//	}
//
// Malformed values in any source panic; the binary recovers and exits.
package config
