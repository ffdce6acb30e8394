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

const dotEnvFile = ".env"

// parseEnv loads path (when it exists) into the process environment without
// overriding variables that are already set, then overlays TRACETRAIL_*
// variables onto cfg.
func parseEnv(cfg *Config, path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}

	envString("TRACETRAIL_API_URL", &cfg.APIBaseURL)
	envString("TRACETRAIL_TOKEN_KEY", &cfg.TokenKey)
	envString("TRACETRAIL_DB_PATH", &cfg.DBPath)
	envString("TRACETRAIL_LOG_LEVEL", &cfg.LogLevel)
	envString("TRACETRAIL_METRICS_ADDR", &cfg.MetricsAddr)
	envString("TRACETRAIL_REPORT_DIR", &cfg.ReportDir)
	envString("TRACETRAIL_S3_BUCKET", &cfg.S3.Bucket)
	envString("TRACETRAIL_S3_REGION", &cfg.S3.Region)
	envString("TRACETRAIL_S3_ENDPOINT", &cfg.S3.Endpoint)
	envString("TRACETRAIL_S3_ACCESS_KEY", &cfg.S3.AccessKey)
	envString("TRACETRAIL_S3_SECRET_KEY", &cfg.S3.SecretKey)

	return errors.Join(
		envDuration("TRACETRAIL_REQUEST_TIMEOUT", &cfg.RequestTimeout),
		envDuration("TRACETRAIL_NOTIFICATION_DURATION", &cfg.NotificationDuration),
		envFloat("TRACETRAIL_RATE_LIMIT", &cfg.RateLimit),
		envInt("TRACETRAIL_RATE_BURST", &cfg.RateBurst),
		envBool("TRACETRAIL_S3_PATH_STYLE", &cfg.S3.UsePathStyle),
	)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func envDuration(name string, dst *time.Duration) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

func envFloat(name string, dst *float64) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

func envInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func envBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = b
	return nil
}
