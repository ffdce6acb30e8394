package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/tracetrail/tracetrail/internal/client/storage"
	"github.com/tracetrail/tracetrail/internal/common"
)

// S3Config selects the S3 report sink when Bucket is set.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Config holds runtime settings for the TraceTrail CLI.
//
// RateLimit is in requests per second; zero disables limiting.
type Config struct {
	APIBaseURL           string
	TokenKey             string
	DBPath               string
	RequestTimeout       time.Duration
	RateLimit            float64
	RateBurst            int
	NotificationDuration time.Duration
	LogLevel             string
	MetricsAddr          string
	ReportDir            string
	S3                   S3Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.TokenKey = common.DefaultTokenKey
	c.DBPath = storage.DefaultDBPath()
	c.RequestTimeout = 15 * time.Second
	c.RateLimit = 10
	c.RateBurst = 20
	c.NotificationDuration = 5 * time.Second
	c.LogLevel = "info"
	c.MetricsAddr = ""
	c.ReportDir = filepath.Join(xdg.UserDirs.Download, common.AppName)
	c.S3 = S3Config{Region: "us-east-1"}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base url %q: must be an http(s) URL", c.APIBaseURL)
	}
	if c.TokenKey == "" {
		return errors.New("token key must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("db path must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout %s: must be positive", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit %v: must not be negative", c.RateLimit)
	}
	if c.NotificationDuration < 0 {
		return fmt.Errorf("notification duration %s: must not be negative", c.NotificationDuration)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, dotEnvFile); err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
