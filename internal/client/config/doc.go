// Package config loads runtime configuration for the TraceTrail CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then TRACETRAIL_* environment
//     variables (see parseEnv). Variables already set in the environment win
//     over the .env file.
//  3. Optional JSON file (see parseJson) selected with -c / -config or
//     $TRACETRAIL_CONFIG.
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-a string   base URL of the TraceTrail API, e.g. http://localhost:8000/api
//	-d string   path of the local state database
//	-t int      request timeout (seconds)
//	-m string   address to serve /metrics on; empty disables it
//	-l string   log level (debug, info, warn, error)
//	-r string   directory for downloaded reports
//
// # Environment
//
//	TRACETRAIL_API_URL, TRACETRAIL_TOKEN_KEY, TRACETRAIL_DB_PATH,
//	TRACETRAIL_REQUEST_TIMEOUT, TRACETRAIL_RATE_LIMIT, TRACETRAIL_RATE_BURST,
//	TRACETRAIL_NOTIFICATION_DURATION, TRACETRAIL_LOG_LEVEL,
//	TRACETRAIL_METRICS_ADDR, TRACETRAIL_REPORT_DIR,
//	TRACETRAIL_S3_BUCKET, TRACETRAIL_S3_REGION, TRACETRAIL_S3_ENDPOINT,
//	TRACETRAIL_S3_ACCESS_KEY, TRACETRAIL_S3_SECRET_KEY, TRACETRAIL_S3_PATH_STYLE
//
// Durations in the environment use Go syntax ("15s", "2m").
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "15s" or integer nanoseconds. Absent keys leave the current
// value alone:
//
//	{
//	  "api_base_url": "https://api.tracetrail.example/api",
//	  "request_timeout": "15s",
//	  "notification_duration": "5s",
//	  "s3": {"bucket": "reports", "region": "us-east-1"}
//	}
package config
