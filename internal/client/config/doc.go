// Package config loads runtime configuration for the worktracker client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file (see parseFile) selected via -c or -config.
//     Files ending in .yaml or .yml are read as YAML, anything else as JSON.
//  3. Environment variables (see parseEnv), optionally seeded from a dotenv
//     file given with -env. Variables already set in the process win over
//     the file.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string        address:port of the document store
//	-t int           request timeout (seconds)
//	-offline         keep data in memory, no server
//	-log-level str   debug, info, warn or error
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "5s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s",
//	  "s3": {"bucket": "certificates", "link_expiry": "24h"}
//	}
//
// # Environment
//
//	WORKTRACKER_SERVER, WORKTRACKER_OFFLINE, WORKTRACKER_LOG_LEVEL,
//	TELEGRAM_TOKEN, S3_ENDPOINT, S3_REGION, S3_BUCKET, S3_ACCESS_KEY,
//	S3_SECRET_KEY, S3_PUBLIC_BASE_URL
package config
