package config

import (
	"encoding/json"
	"os"

	"github.com/tracetrail/tracetrail/internal/flagx"
	"github.com/tracetrail/tracetrail/internal/timex"
)

type jsonS3Config struct {
	Bucket       *string `json:"bucket"`
	Region       *string `json:"region"`
	Endpoint     *string `json:"endpoint"`
	AccessKey    *string `json:"access_key"`
	SecretKey    *string `json:"secret_key"`
	UsePathStyle *bool   `json:"use_path_style"`
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero" so a partial file only overrides
// what it names.
type JsonConfig struct {
	APIBaseURL           *string         `json:"api_base_url"`
	TokenKey             *string         `json:"token_key"`
	DBPath               *string         `json:"db_path"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	RateLimit            *float64        `json:"rate_limit"`
	RateBurst            *int            `json:"rate_burst"`
	NotificationDuration *timex.Duration `json:"notification_duration"`
	LogLevel             *string         `json:"log_level"`
	MetricsAddr          *string         `json:"metrics_addr"`
	ReportDir            *string         `json:"report_dir"`
	S3                   *jsonS3Config   `json:"s3"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config
// or $TRACETRAIL_CONFIG. No file configured means no change.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	jc.apply(cfg)
	return nil
}

func (jc *JsonConfig) apply(cfg *Config) {
	set(&cfg.APIBaseURL, jc.APIBaseURL)
	set(&cfg.TokenKey, jc.TokenKey)
	set(&cfg.DBPath, jc.DBPath)
	set(&cfg.RateLimit, jc.RateLimit)
	set(&cfg.RateBurst, jc.RateBurst)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.MetricsAddr, jc.MetricsAddr)
	set(&cfg.ReportDir, jc.ReportDir)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.NotificationDuration != nil {
		cfg.NotificationDuration = jc.NotificationDuration.Duration
	}
	if s3 := jc.S3; s3 != nil {
		set(&cfg.S3.Bucket, s3.Bucket)
		set(&cfg.S3.Region, s3.Region)
		set(&cfg.S3.Endpoint, s3.Endpoint)
		set(&cfg.S3.AccessKey, s3.AccessKey)
		set(&cfg.S3.SecretKey, s3.SecretKey)
		set(&cfg.S3.UsePathStyle, s3.UsePathStyle)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
